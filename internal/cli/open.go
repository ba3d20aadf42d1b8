package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [session-id]",
		Short: "Open the web UI in a browser",
		Long: `Open the server's web UI in the default browser.

With a session id the browser goes straight to that session's play page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := strings.TrimSuffix(cfg.ServerURL, "/") + "/"
			if len(args) == 1 {
				url += "play/" + args[0]
			}

			if err := browser.OpenURL(url); err != nil {
				return fmt.Errorf("failed to open browser: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Opened " + url)
			return nil
		},
	}
}
