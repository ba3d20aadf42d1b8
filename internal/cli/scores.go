package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScoresCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Leaderboard commands",
	}

	cmd.AddCommand(newScoresTopCmd())
	cmd.AddCommand(newScoresBestCmd())

	return cmd
}

func newScoresTopCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the highest scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/scores?limit=%d", limit), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of scores to show")

	return cmd
}

func newScoresBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best <player-id>",
		Short: "Show a player's best and recent games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerStats

			if err := client.Get(cmd.Context(), "/api/v1/players/"+args[0]+"/best", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
