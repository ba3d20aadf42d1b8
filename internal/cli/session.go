package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Game session commands",
	}

	cmd.AddCommand(newSessionNewCmd())
	cmd.AddCommand(newSessionShowCmd())
	cmd.AddCommand(newSessionCommandCmd())
	cmd.AddCommand(newSessionTickCmd())
	cmd.AddCommand(newSessionEndCmd())

	return cmd
}

func newSessionNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Post(cmd.Context(), "/api/v1/sessions", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session's board and stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Get(cmd.Context(), "/api/v1/sessions/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionCommandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cmd <session-id> <command>",
		Short: "Send a command to a session",
		Long: `Send one command to a session you own.

Commands:
  left, right  Move the falling piece one column
  rotate       Rotate the falling piece clockwise
  drop         Move the falling piece down one row
  pause        Toggle pause
  restart      Start a new game in the same session`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"command": args[1]}
			var result CommandResult

			if err := client.Post(cmd.Context(), "/api/v1/sessions/"+args[0]+"/commands", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick <session-id> <delta-ms>",
		Short: "Advance a session's clock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid delta %q: must be milliseconds", args[1])
			}

			req := map[string]int64{"delta_ms": delta}
			var result TickResult

			if err := client.Post(cmd.Context(), "/api/v1/sessions/"+args[0]+"/tick", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/sessions/"+args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Ended session " + args[0])
			return nil
		},
	}
}
