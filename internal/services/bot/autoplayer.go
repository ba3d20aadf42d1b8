package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/random"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
)

// maxStepsPerPiece bounds the commands issued for a single piece
const maxStepsPerPiece = 64

// Player is the part of a loop driver the autoplayer needs
type Player interface {
	Snapshot() loop.Snapshot
	Command(cmd model.Command) (game.Outcome, error)
}

var _ Player = (*loop.Driver)(nil)

// Autoplayer turns strategy placements into driver commands
type Autoplayer struct {
	strategy Strategy
	logger   *slog.Logger
}

// NewAutoplayer creates an Autoplayer
func NewAutoplayer(strategy Strategy, logger *slog.Logger) *Autoplayer {
	return &Autoplayer{
		strategy: strategy,
		logger:   logger.With(slog.String("component", "autoplayer")),
	}
}

// PlayPiece plans the current piece and issues rotate, move and drop
// commands until it locks. Returns nil without doing anything when the
// session is paused or over.
func (a *Autoplayer) PlayPiece(p Player) (*game.LockResult, error) {
	snap := p.Snapshot()
	if snap.GameOver || snap.Paused || snap.Current == nil {
		return nil, nil
	}

	b := &model.Board{Cells: snap.Board}
	target := a.strategy.Choose(b, snap.Current, snap.Next)

	for range target.Rotations {
		outcome, err := p.Command(model.CommandRotate)
		if err != nil {
			return nil, err
		}
		if !outcome.Applied {
			break
		}
	}

	for range model.BoardCols {
		x := p.Snapshot().Current.X
		if x == target.Column {
			break
		}
		cmd := model.CommandRight
		if target.Column < x {
			cmd = model.CommandLeft
		}
		outcome, err := p.Command(cmd)
		if err != nil {
			return nil, err
		}
		if !outcome.Applied {
			break
		}
	}

	for range maxStepsPerPiece {
		outcome, err := p.Command(model.CommandDrop)
		if err != nil {
			return nil, err
		}
		if outcome.Lock != nil {
			return outcome.Lock, nil
		}
		if !outcome.Applied {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("piece did not lock after %d drops", maxStepsPerPiece)
}

// Play places pieces until the game ends, maxPieces have locked (0 means no
// limit) or ctx is cancelled. Returns the number of pieces locked.
func (a *Autoplayer) Play(ctx context.Context, p Player, maxPieces int) (int, error) {
	locked := 0
	for maxPieces == 0 || locked < maxPieces {
		if err := ctx.Err(); err != nil {
			return locked, err
		}
		lock, err := a.PlayPiece(p)
		if err != nil {
			return locked, err
		}
		if lock == nil {
			break
		}
		if len(lock.Cells) > 0 {
			locked++
		}
		if lock.GameOver {
			break
		}
	}

	snap := p.Snapshot()
	a.logger.Debug("autoplay finished",
		slog.String("session_id", string(snap.SessionID)),
		slog.Int("pieces", locked),
		slog.Int("score", snap.Score),
		slog.Int("lines", snap.Lines),
	)
	return locked, nil
}

// NewStrategy builds the named strategy
func NewStrategy(name string, boardService *board.Service, rnd random.Random) (Strategy, error) {
	switch name {
	case model.BotStrategyGreedy:
		return NewGreedyStrategy(boardService, DefaultWeights), nil
	case model.BotStrategyRandom:
		return NewRandomStrategy(rnd), nil
	default:
		return nil, fmt.Errorf("unknown bot strategy: %s", name)
	}
}
