// Package tui is the terminal front end for a local session: tcell input and
// rendering over a session.Manager, with an optional bot in control.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/bot"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/storage"
)

const highScoreCount = 5

// Config holds timing for the terminal game
type Config struct {
	// FrameRate is how often the screen is redrawn
	FrameRate time.Duration
	// DemoStep is how often the bot places a piece in demo mode
	DemoStep time.Duration
	// DemoRestart is how long the game-over screen stays up in demo mode
	DemoRestart time.Duration
}

// DefaultConfig returns roughly 60 frames per second
func DefaultConfig() Config {
	return Config{
		FrameRate:   16 * time.Millisecond,
		DemoStep:    300 * time.Millisecond,
		DemoRestart: 3 * time.Second,
	}
}

// Game runs one managed session in the terminal
type Game struct {
	screen     tcell.Screen
	renderer   *Renderer
	manager    *session.Manager
	storage    storage.Storage
	autoplayer *bot.Autoplayer
	config     Config
	logger     *slog.Logger

	sessionID  model.SessionID
	playerID   model.PlayerID
	playerName string

	highScores    []*model.ScoreEntry
	scoresForGame int
	gameOverSince time.Time
}

// New creates a Game for an existing session. autoplayer may be nil; when set
// the bot plays and keys other than pause, restart and quit are ignored.
func New(
	screen tcell.Screen,
	manager *session.Manager,
	store storage.Storage,
	sessionID model.SessionID,
	player *model.Player,
	autoplayer *bot.Autoplayer,
	config Config,
	logger *slog.Logger,
) *Game {
	return &Game{
		screen:     screen,
		renderer:   NewRenderer(screen),
		manager:    manager,
		storage:    store,
		autoplayer: autoplayer,
		config:     config,
		logger:     logger.With(slog.String("component", "tui")),
		sessionID:  sessionID,
		playerID:   player.ID,
		playerName: player.DisplayName,
	}
}

// HandleKey applies one key press. Returns true when the player asked to quit.
func (g *Game) HandleKey(ctx context.Context, ev *tcell.EventKey) (bool, error) {
	action, cmd := KeyAction(ev)
	switch action {
	case ActionQuit:
		return true, nil
	case ActionCommand:
		if g.autoplayer != nil && cmd != model.CommandPause && cmd != model.CommandRestart {
			return false, nil
		}
		_, _, err := g.manager.Command(ctx, g.sessionID, g.playerID, cmd)
		return false, err
	default:
		return false, nil
	}
}

// Draw renders the current state of the session
func (g *Game) Draw(ctx context.Context) error {
	snap, err := g.manager.Snapshot(g.sessionID)
	if err != nil {
		return err
	}
	if snap.GameOver && g.scoresForGame != snap.GameNumber {
		g.scoresForGame = snap.GameNumber
		g.loadHighScores(ctx)
	}
	g.renderer.Draw(snap, Frame{
		Player:     g.playerName,
		Demo:       g.autoplayer != nil,
		HighScores: g.highScores,
	})
	return nil
}

// StepDemo lets the bot place one piece, restarting a finished game once it
// has been over for DemoRestart
func (g *Game) StepDemo(ctx context.Context, now time.Time) error {
	if g.autoplayer == nil {
		return nil
	}
	player := managedPlayer{ctx: ctx, manager: g.manager, id: g.sessionID, playerID: g.playerID}
	snap := player.Snapshot()
	if !snap.GameOver {
		g.gameOverSince = time.Time{}
		_, err := g.autoplayer.PlayPiece(player)
		return err
	}
	if g.gameOverSince.IsZero() {
		g.gameOverSince = now
		return nil
	}
	if now.Sub(g.gameOverSince) < g.config.DemoRestart {
		return nil
	}
	g.gameOverSince = time.Time{}
	_, err := player.Command(model.CommandRestart)
	return err
}

// Run polls input and redraws until the player quits or ctx is done
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	frames := time.NewTicker(g.config.FrameRate)
	defer frames.Stop()

	var demo <-chan time.Time
	if g.autoplayer != nil {
		demoTicker := time.NewTicker(g.config.DemoStep)
		defer demoTicker.Stop()
		demo = demoTicker.C
	}

	if err := g.Draw(ctx); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				quit, err := g.HandleKey(ctx, ev)
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
			case *tcell.EventResize:
				g.screen.Sync()
			}
		case now := <-demo:
			if err := g.StepDemo(ctx, now); err != nil {
				return err
			}
		case <-frames.C:
			if err := g.Draw(ctx); err != nil {
				return err
			}
		}
	}
}

func (g *Game) loadHighScores(ctx context.Context) {
	scores, err := g.storage.TopScores(ctx, highScoreCount)
	if err != nil {
		g.logger.Warn("failed to load high scores", slog.String("error", err.Error()))
		return
	}
	g.highScores = scores
}

// managedPlayer lets the autoplayer drive a session through the manager, so
// bot games are recorded like any other
type managedPlayer struct {
	ctx      context.Context
	manager  *session.Manager
	id       model.SessionID
	playerID model.PlayerID
}

func (p managedPlayer) Snapshot() loop.Snapshot {
	snap, _ := p.manager.Snapshot(p.id)
	return snap
}

func (p managedPlayer) Command(cmd model.Command) (game.Outcome, error) {
	outcome, _, err := p.manager.Command(p.ctx, p.id, p.playerID, cmd)
	return outcome, err
}

var _ bot.Player = managedPlayer{}
