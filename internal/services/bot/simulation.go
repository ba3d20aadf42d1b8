package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/clock"
	"github.com/mcoot/tetrisgame-go/internal/dependencies/random"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
	"github.com/mcoot/tetrisgame-go/internal/services/scoring"
)

// SimulationConfig describes a batch of headless bot games
type SimulationConfig struct {
	Strategy  string
	Games     int
	MaxPieces int    // 0 plays every game to the end
	Seed      uint64 // game i is seeded with Seed+i
	Workers   int    // 0 uses GOMAXPROCS
	Scoring   scoring.Config
}

// SimulationResult is the outcome of one simulated game
type SimulationResult struct {
	Game     int
	Seed     uint64
	Score    int
	Level    int
	Lines    int
	Pieces   int
	GameOver bool
	Elapsed  time.Duration
}

// Simulate plays cfg.Games independent games with the named strategy.
// Results are returned in game order. The first error cancels the batch.
func Simulate(ctx context.Context, cfg SimulationConfig, logger *slog.Logger) ([]SimulationResult, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	if len(cfg.Scoring.LineBonus) == 0 {
		cfg.Scoring = scoring.DefaultConfig()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]SimulationResult, cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range cfg.Games {
		g.Go(func() error {
			result, err := simulateGame(gctx, cfg, i, logger)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("simulation finished",
		slog.String("strategy", cfg.Strategy),
		slog.Int("games", cfg.Games),
	)
	return results, nil
}

func simulateGame(ctx context.Context, cfg SimulationConfig, index int, logger *slog.Logger) (SimulationResult, error) {
	seed := cfg.Seed + uint64(index)
	rnd := random.NewSeeded(seed)
	clk := clock.New()

	boardService := board.New()
	controller := game.NewController(boardService, scoring.New(cfg.Scoring), clk, rnd, logger)
	strategy, err := NewStrategy(cfg.Strategy, boardService, rnd)
	if err != nil {
		return SimulationResult{}, err
	}

	id := model.SessionID(fmt.Sprintf("SIM%05d", index+1))
	session := controller.NewSession(id, model.BotPlayerID(cfg.Strategy))
	driver := loop.NewDriver(controller, session, loop.NewEffects(rnd), logger)

	start := clk.Now()
	if _, err := NewAutoplayer(strategy, logger).Play(ctx, driver, cfg.MaxPieces); err != nil {
		return SimulationResult{}, err
	}

	snap := driver.Snapshot()
	return SimulationResult{
		Game:     index + 1,
		Seed:     seed,
		Score:    snap.Score,
		Level:    snap.Level,
		Lines:    snap.Lines,
		Pieces:   snap.Pieces,
		GameOver: snap.GameOver,
		Elapsed:  clk.Now().Sub(start),
	}, nil
}
