package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetrisgame-go/internal/api/apierr"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/web/middleware"
	"github.com/mcoot/tetrisgame-go/internal/web/sse"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/layout"
	"github.com/mcoot/tetrisgame-go/internal/web/templates/pages"
)

// PlayHandler serves the browser game: the play page, key commands and the
// SSE stream that keeps the board live
type PlayHandler struct {
	manager    *session.Manager
	hubManager *sse.HubManager
	renderer   *sse.Renderer
	logger     *slog.Logger
}

// NewPlayHandler creates a new PlayHandler
func NewPlayHandler(manager *session.Manager, hubManager *sse.HubManager, logger *slog.Logger) *PlayHandler {
	return &PlayHandler{
		manager:    manager,
		hubManager: hubManager,
		renderer:   sse.NewRenderer(),
		logger:     logger,
	}
}

// Create starts a new session and redirects to its page
func (h *PlayHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r)

	snap, err := h.manager.Create(r.Context(), player.ID)
	if err != nil {
		h.logger.Error("failed to create session",
			slog.String("player_id", string(player.ID)),
			slog.Any("error", err))
		middleware.SetFlash(w, "error", "Could not start a game")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/play/"+string(snap.SessionID), http.StatusSeeOther)
}

// View renders the play page
func (h *PlayHandler) View(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r)

	snap, err := h.ownedSnapshot(r)
	if err != nil {
		renderError(w, r, apierr.Status(err), errorMessage(err))
		return
	}

	data := pages.PlayData{
		PageData: layout.PageData{
			Title:  "Play",
			Player: player,
			Flash:  middleware.GetFlash(r.Context()),
		},
		Snapshot: snap,
	}
	render(w, r, http.StatusOK, pages.Play(data))
}

// Board returns the swappable board fragment
func (h *PlayHandler) Board(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ownedSnapshot(r)
	if err != nil {
		http.Error(w, errorMessage(err), apierr.Status(err))
		return
	}
	h.writeBoard(w, r, snap)
}

// Command applies a key press and returns the refreshed board fragment. A
// rejected move still answers with the board as it stands.
func (h *PlayHandler) Command(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r)
	id := model.SessionID(mux.Vars(r)["id"])

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	cmd, err := model.ParseCommand(r.FormValue("command"))
	if err != nil {
		http.Error(w, "Unknown command", http.StatusBadRequest)
		return
	}

	_, snap, err := h.manager.Command(r.Context(), id, player.ID, cmd)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) || errors.Is(err, model.ErrSessionEnded) {
			w.Header().Set("HX-Redirect", "/")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Error(w, errorMessage(err), apierr.Status(err))
		return
	}
	h.writeBoard(w, r, snap)
}

// Events streams live board updates for a session
func (h *PlayHandler) Events(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r)

	snap, err := h.ownedSnapshot(r)
	if err != nil {
		http.Error(w, errorMessage(err), apierr.Status(err))
		return
	}

	hub := h.hubManager.GetOrCreateHub(snap.SessionID)
	sse.ServeSSE(w, r, hub, player.ID)
}

// End stops a session and returns to the home page
func (h *PlayHandler) End(w http.ResponseWriter, r *http.Request) {
	player := middleware.GetPlayer(r)
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.manager.End(r.Context(), id, player.ID); err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		middleware.SetFlash(w, "error", errorMessage(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetFlash(w, "info", "Session ended")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PlayHandler) ownedSnapshot(r *http.Request) (loop.Snapshot, error) {
	player := middleware.GetPlayer(r)
	id := model.SessionID(mux.Vars(r)["id"])

	snap, err := h.manager.Snapshot(id)
	if err != nil {
		return loop.Snapshot{}, err
	}
	if snap.PlayerID != player.ID {
		return loop.Snapshot{}, model.ErrNotSessionOwner
	}
	return snap, nil
}

func (h *PlayHandler) writeBoard(w http.ResponseWriter, r *http.Request, snap loop.Snapshot) {
	html, err := h.renderer.RenderBoard(r.Context(), snap)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return "That game does not exist"
	case errors.Is(err, model.ErrNotSessionOwner):
		return "That game belongs to someone else"
	case errors.Is(err, model.ErrSessionEnded):
		return "That game has ended"
	default:
		return "Something went wrong"
	}
}
