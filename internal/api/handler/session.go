package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetrisgame-go/internal/api/middleware"
	"github.com/mcoot/tetrisgame-go/internal/api/request"
	"github.com/mcoot/tetrisgame-go/internal/api/response"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	manager *session.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	snap, err := h.manager.Create(r.Context(), player.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromSnapshot(snap))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	snap, err := h.manager.Snapshot(id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromSnapshot(snap))
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.manager.End(r.Context(), id, player.ID); err != nil {
		writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// Command handles POST /api/v1/sessions/{id}/commands
func (h *SessionHandler) Command(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.CommandRequest
	if err := request.Decode(r, &req, false); err != nil {
		writeError(w, r, err)
		return
	}

	cmd, err := model.ParseCommand(req.Command)
	if err != nil {
		writeError(w, r, err)
		return
	}

	outcome, snap, err := h.manager.Command(r.Context(), id, player.ID, cmd)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CommandResponse{
		Applied: outcome.Applied,
		Lock:    response.LockFromResult(outcome.Lock),
		Session: response.SessionFromSnapshot(snap),
	})
}

// Tick handles POST /api/v1/sessions/{id}/tick
func (h *SessionHandler) Tick(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.TickRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, snap, err := h.manager.Tick(r.Context(), id, player.ID, req.Delta())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.TickResponse{
		Dropped: result.Dropped,
		Lock:    response.LockFromResult(result.Lock),
		Session: response.SessionFromSnapshot(snap),
	})
}
