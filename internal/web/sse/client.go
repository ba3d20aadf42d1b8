package sse

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

const (
	keepalivePeriod = 30 * time.Second
	writeWait       = 10 * time.Second
	reconnectDelay  = 3 * time.Second

	sendBufferSize = 256
)

// Client is one browser tab following a session's event stream
type Client struct {
	hub         *Hub
	playerID    model.PlayerID
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client for hub. It receives nothing until registered.
func NewClient(hub *Hub, playerID model.PlayerID) *Client {
	return &Client{
		hub:         hub,
		playerID:    playerID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE streams hub broadcasts to the response until the browser goes
// away or the hub shuts down. Every write carries its own deadline so a
// stalled reader can't pin the handler.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, playerID model.PlayerID) {
	rc := http.NewResponseController(w)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	send := func(b []byte) bool {
		_ = rc.SetWriteDeadline(time.Now().Add(writeWait))
		if _, err := w.Write(b); err != nil {
			return false
		}
		return rc.Flush() == nil
	}

	hello := append([]byte("retry: "+reconnectMillis()+"\n\n"), formatSSEMessage("connected", `{"status":"connected"}`)...)
	if !send(hello) {
		return
	}

	client := NewClient(hub, playerID)
	hub.Register(client)
	defer hub.Unregister(client)

	keepalive := time.NewTicker(keepalivePeriod)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-client.send:
			if !ok || !send(msg) {
				return
			}
		case <-keepalive.C:
			if !send([]byte(": keepalive\n\n")) {
				return
			}
		}
	}
}

func reconnectMillis() string {
	return strconv.FormatInt(reconnectDelay.Milliseconds(), 10)
}
