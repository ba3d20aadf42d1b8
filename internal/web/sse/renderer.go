package sse

import (
	"bytes"
	"context"
	"strconv"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/components"
)

// SSE event names sent to play page clients
const (
	EventBoardUpdate   = "board-update"
	EventLinesCleared  = "lines-cleared"
	EventGameOver      = "game-over"
	EventSessionEnded  = "session-ended"
	EventSessionPaused = "paused"
)

// Renderer converts session events to HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderBoard renders the board as HTML that replaces the page's #board element
func (r *Renderer) RenderBoard(ctx context.Context, snap loop.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := components.Board(snap).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// EventData represents SSE event data
type EventData struct {
	EventName string
	HTML      string
}

// RenderSessionEvent converts a session event to the SSE messages to send.
// Every state change re-renders the board panel; line clears and game over
// also get their own named events carrying a short payload.
func (r *Renderer) RenderSessionEvent(ctx context.Context, event model.Event, snap loop.Snapshot) ([]EventData, error) {
	var events []EventData

	board := func() error {
		html, err := r.RenderBoard(ctx, snap)
		if err != nil {
			return err
		}
		events = append(events, EventData{EventName: EventBoardUpdate, HTML: html})
		return nil
	}

	switch event.Type {
	case model.EventSessionStarted, model.EventUpdated, model.EventPieceLocked,
		model.EventResumed, model.EventRestarted:
		if err := board(); err != nil {
			return nil, err
		}

	case model.EventPaused:
		if err := board(); err != nil {
			return nil, err
		}
		events = append(events, EventData{EventName: EventSessionPaused, HTML: "paused"})

	case model.EventLinesCleared:
		count := 0
		if payload, ok := event.Payload.(model.LinesClearedPayload); ok {
			count = payload.Count
		}
		events = append(events, EventData{EventName: EventLinesCleared, HTML: strconv.Itoa(count)})

	case model.EventGameOver:
		if err := board(); err != nil {
			return nil, err
		}
		events = append(events, EventData{EventName: EventGameOver, HTML: strconv.Itoa(snap.Score)})

	case model.EventSessionEnded:
		events = append(events, EventData{
			EventName: EventSessionEnded,
			HTML:      `<script>window.location.href = "/";</script>`,
		})
	}

	return events, nil
}
