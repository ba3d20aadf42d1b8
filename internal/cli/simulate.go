package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/bot"
)

func newSimulateCmd() *cobra.Command {
	simCfg := bot.SimulationConfig{}
	var seed int64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run headless bot games",
		Long: `Play a batch of games with a bot strategy and report the results.

Games run in parallel without a server. The same --seed always produces
the same games.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed < 0 {
				return fmt.Errorf("--seed must not be negative")
			}
			simCfg.Seed = uint64(seed)
			if simCfg.Seed == 0 {
				simCfg.Seed = uint64(time.Now().UnixNano())
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			if cfg.Verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}

			results, err := bot.Simulate(cmd.Context(), simCfg, logger)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(simulationReport(simCfg.Strategy, results))
			return nil
		},
	}

	cmd.Flags().StringVar(&simCfg.Strategy, "strategy", model.BotStrategyGreedy, fmt.Sprintf("Bot strategy: %v", model.ValidBotStrategies()))
	cmd.Flags().IntVarP(&simCfg.Games, "games", "n", 10, "Number of games")
	cmd.Flags().IntVar(&simCfg.MaxPieces, "max-pieces", 500, "Stop each game after this many pieces (0 for no limit)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the first game (random when 0)")
	cmd.Flags().IntVar(&simCfg.Workers, "workers", 0, "Games run at once (0 for one per CPU)")

	return cmd
}

func simulationReport(strategy string, results []bot.SimulationResult) SimulationReport {
	report := SimulationReport{
		Strategy: strategy,
		Games:    make([]SimulatedGame, len(results)),
	}

	total := 0
	for i, r := range results {
		report.Games[i] = SimulatedGame{
			Game:     r.Game,
			Seed:     r.Seed,
			Score:    r.Score,
			Level:    r.Level,
			Lines:    r.Lines,
			Pieces:   r.Pieces,
			GameOver: r.GameOver,
		}
		total += r.Score
		report.Best = max(report.Best, r.Score)
	}
	if len(results) > 0 {
		report.Mean = float64(total) / float64(len(results))
	}
	return report
}
