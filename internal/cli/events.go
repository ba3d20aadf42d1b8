package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <session-id>",
		Short: "Stream SSE events from a session",
		Long: `Connect to the session's SSE endpoint and stream events in real-time.

Events include:
  - board-update: The board or falling piece changed
  - lines-cleared: One or more rows were cleared
  - paused: The session was paused or resumed
  - game-over: The game ended
  - session-ended: The session was closed

Only the session owner may subscribe. Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd.Context(), args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, sessionID string, jsonOutput bool) error {
	// SSE is served by the web router and authenticates with the session cookie
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/play/" + sessionID + "/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", userAgent)
	if cfg.Token != "" {
		req.AddCookie(&http.Cookie{
			Name:  "session",
			Value: cfg.Token,
		})
	}

	// No client timeout: the stream lasts as long as the session
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !jsonOutput {
		fmt.Printf("Connected to session %s\n", emph(sessionID))
	}

	err = readEvents(resp.Body, func(ev SSEEvent) {
		printEvent(os.Stdout, ev, jsonOutput)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Println("Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream, calling fn once per named event.
// Comment lines (keepalives) and unnamed events are skipped.
func readEvents(r io.Reader, fn func(SSEEvent)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var event string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch {
		case line == "":
			if event != "" {
				fn(SSEEvent{Time: time.Now(), Event: event, Data: strings.Join(data, "\n")})
			}
			event = ""
			data = nil
		case field == "":
			// comment
		case field == "event":
			event = value
		case field == "data":
			data = append(data, value)
		}
	}
	return scanner.Err()
}

func printEvent(w io.Writer, ev SSEEvent, jsonOutput bool) {
	if jsonOutput {
		jsonData, _ := json.Marshal(ev)
		fmt.Fprintln(w, string(jsonData))
		return
	}

	// Payloads are HTML fragments; one line of them is enough to follow along
	display := strings.Join(strings.Fields(ev.Data), " ")
	if len(display) > 100 {
		display = display[:100] + "..."
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", ev.Time.Format("15:04:05.000"), emph(ev.Event), display)
}
