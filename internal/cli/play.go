package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/mcoot/tetrisgame-go/internal/factory"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/bot"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/tui"
)

type playOptions struct {
	name   string
	demo   string
	sound  bool
	dbPath string
}

func newPlayCmd() *cobra.Command {
	opts := playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play a local game in the terminal. No server is needed.

Scores are kept in a local database so the high score table survives
between runs.

Keys:
  left/right, h/l  Move
  up, k            Rotate
  down, j          Drop one row
  space, p         Pause
  r                Restart
  q, esc           Quit

With --demo the named bot strategy plays instead and its games are not
added to the high score table.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.name, "name", "", "Display name (generated when empty)")
	cmd.Flags().StringVar(&opts.demo, "demo", "", fmt.Sprintf("Let a bot play: %v", model.ValidBotStrategies()))
	cmd.Flags().BoolVar(&opts.sound, "sound", false, "Play sound effects")
	cmd.Flags().StringVar(&opts.dbPath, "db", DataPath("scores.db"), "Local score database")

	return cmd
}

func runPlay(ctx context.Context, opts playOptions) error {
	if err := ensureParent(opts.dbPath); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	logger, closeLog, err := playLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	app, err := factory.New(ctx, factory.Config{
		SessionConfig: session.Config{
			TickRate:    50 * time.Millisecond,
			IdleTimeout: time.Hour,
		},
		Logger:      logger,
		StorageType: factory.StorageTypeSQLite,
		SQLitePath:  opts.dbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}
	defer func() { _ = app.Close(context.Background()) }()

	var autoplayer *bot.Autoplayer
	var player *model.Player
	if opts.demo != "" {
		strategy, err := bot.NewStrategy(opts.demo, app.BoardService, app.Random)
		if err != nil {
			return err
		}
		autoplayer = bot.NewAutoplayer(strategy, logger)
		player = &model.Player{
			ID:          model.BotPlayerID(opts.demo),
			DisplayName: model.BotStrategyDisplayName(opts.demo),
		}
	} else {
		auth, err := app.AuthService.CreateGuestPlayer(ctx, opts.name)
		if err != nil {
			return err
		}
		player = &auth.Player
	}

	snap, err := app.SessionManager.Create(ctx, player.ID)
	if err != nil {
		return err
	}

	if opts.sound {
		sound, err := tui.NewSound()
		if err != nil {
			logger.Warn("sound disabled", slog.String("error", err.Error()))
		} else {
			defer sound.Close()
			app.SessionManager.AddObserver(sound)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer screen.Fini()

	game := tui.New(screen, app.SessionManager, app.Storage, snap.SessionID, player, autoplayer, tui.DefaultConfig(), logger)
	return game.Run(ctx)
}

// playLogger keeps log output off the terminal the game is drawn on
func playLogger() (*slog.Logger, func(), error) {
	if !cfg.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	path := DataPath("tetris.log")
	if err := ensureParent(path); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
