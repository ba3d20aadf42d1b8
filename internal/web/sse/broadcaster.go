package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
)

// SnapshotSource looks up the current state of a session
type SnapshotSource interface {
	Snapshot(id model.SessionID) (loop.Snapshot, error)
}

// Broadcaster pushes session events to the SSE clients watching them. It is
// registered as a session observer.
type Broadcaster struct {
	hubManager *HubManager
	source     SnapshotSource
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, source SnapshotSource, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		source:     source,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// OnSessionEvent renders and broadcasts an event. Sessions nobody is
// watching are skipped without rendering.
func (b *Broadcaster) OnSessionEvent(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	if event.Type == model.EventSessionEnded {
		hub.BroadcastEvent(EventSessionEnded, `<script>window.location.href = "/";</script>`)
		b.hubManager.RemoveHub(event.SessionID)
		return
	}

	snap, err := b.source.Snapshot(event.SessionID)
	if err != nil {
		b.logger.Debug("sse snapshot unavailable",
			slog.String("session_id", string(event.SessionID)),
			slog.Any("error", err))
		return
	}

	events, err := b.renderer.RenderSessionEvent(context.Background(), event, snap)
	if err != nil {
		b.logger.Error("sse failed to render session event",
			slog.String("session_id", string(event.SessionID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	for _, e := range events {
		hub.BroadcastEvent(e.EventName, e.HTML)
	}
}

// BroadcastRefresh tells all clients of a session to re-render the board
func (b *Broadcaster) BroadcastRefresh(sessionID model.SessionID) {
	b.OnSessionEvent(model.Event{Type: model.EventUpdated, SessionID: sessionID})
}
