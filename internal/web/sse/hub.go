package sse

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

// frame is one formatted SSE message and the event it belongs to
type frame struct {
	event string
	msg   []byte
}

// Hub fans a session's events out to every tab watching it. It keeps the
// latest frame of each event so a tab that joins mid-game sees the current
// board without waiting for the next tick.
type Hub struct {
	sessionID model.SessionID
	logger    *slog.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}

	// Owned by Run
	latest map[string][]byte
	order  []string

	register   chan *Client
	unregister chan *Client
	broadcast  chan frame
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a hub for a session. Run must be started before use.
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID:  sessionID,
		logger:     logger.With(slog.String("session_id", string(sessionID))),
		clients:    make(map[*Client]struct{}),
		latest:     make(map[string][]byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan frame, sendBufferSize),
		done:       make(chan struct{}),
	}
}

// Run serves registrations and broadcasts until Close
func (h *Hub) Run() {
	h.logger.Debug("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case f := <-h.broadcast:
			h.fanOut(f)
		case <-h.done:
			h.shutdown()
			return
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	// Replay is bounded by the number of event kinds, well under the buffer
	for _, event := range h.order {
		client.send <- h.latest[event]
	}

	h.logger.Info("sse client connected",
		slog.String("player_id", string(client.playerID)),
		slog.Int("replayed", len(h.order)),
		slog.Int("clients", total))
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.logger.Info("sse client disconnected",
			slog.String("player_id", string(client.playerID)),
			slog.Duration("connected_for", time.Since(client.connectedAt)),
			slog.Int("clients", total))
	}
}

func (h *Hub) fanOut(f frame) {
	if _, seen := h.latest[f.event]; !seen {
		h.order = append(h.order, f.event)
	}
	h.latest[f.event] = f.msg

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- f.msg:
		default:
			// A lagging tab misses this frame; the next one supersedes it
			h.logger.Warn("sse frame dropped for slow client",
				slog.String("player_id", string(client.playerID)),
				slog.String("event", f.event))
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	total := len(h.clients)
	for client := range h.clients {
		close(client.send)
	}
	clear(h.clients)
	h.mu.Unlock()

	h.logger.Debug("sse hub stopped", slog.Int("disconnected", total))
}

// Register adds a client. A client registered after Close gets its send
// channel closed straight away.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
}

// Unregister removes a client. Safe to call after Close.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastEvent queues a named event for every client. When the hub is
// backed up the event is dropped.
func (h *Hub) BroadcastEvent(eventName, data string) {
	select {
	case h.broadcast <- frame{event: eventName, msg: formatSSEMessage(eventName, data)}:
	case <-h.done:
	default:
		h.logger.Warn("sse broadcast dropped, hub backed up", slog.String("event", eventName))
	}
}

// Close disconnects every client and stops Run. Idempotent.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatSSEMessage formats an SSE message with event name and data.
// Every line of data gets its own "data: " prefix.
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, dropping carriage returns and a
// trailing newline
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// HubManager manages hubs for all watched sessions
type HubManager struct {
	hubs   map[model.SessionID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.SessionID]*Hub),
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a session, creating one if it doesn't exist
func (m *HubManager) GetOrCreateHub(sessionID model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[sessionID]; ok {
		return hub
	}

	hub := NewHub(sessionID, m.logger)
	m.hubs[sessionID] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a session, or nil if it doesn't exist
func (m *HubManager) GetHub(sessionID model.SessionID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[sessionID]
}

// RemoveHub removes and closes a hub
func (m *HubManager) RemoveHub(sessionID model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[sessionID]; ok {
		hub.Close()
		delete(m.hubs, sessionID)
		m.logger.Info("sse hub removed", slog.String("session_id", string(sessionID)))
	}
}

// CleanupEmptyHubs removes hubs with no clients
func (m *HubManager) CleanupEmptyHubs() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("sse empty hubs cleaned up", slog.Int("removed", removedCount))
	}
}
