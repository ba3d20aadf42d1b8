package handler

import (
	"net/http"

	"github.com/mcoot/tetrisgame-go/internal/api/middleware"
	"github.com/mcoot/tetrisgame-go/internal/api/request"
	"github.com/mcoot/tetrisgame-go/internal/api/response"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
)

// PlayerHandler handles player and login endpoints
type PlayerHandler struct {
	authService *auth.Service
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(authService *auth.Service) *PlayerHandler {
	return &PlayerHandler{authService: authService}
}

// CreateGuest handles POST /api/v1/players/guest. The body is optional.
func (h *PlayerHandler) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGuestRequest
	if err := request.Decode(r, &req, true); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.authService.CreateGuestPlayer(r.Context(), req.DisplayName)
	writeAuth(w, r, http.StatusCreated, session, err)
}

// Register handles POST /api/v1/players/register
func (h *PlayerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.authService.RegisterPlayer(r.Context(), req.Username, req.Password, req.DisplayName)
	writeAuth(w, r, http.StatusCreated, session, err)
}

// Login handles POST /api/v1/players/login
func (h *PlayerHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeValid(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Username, req.Password)
	writeAuth(w, r, http.StatusOK, session, err)
}

// GetMe handles GET /api/v1/players/me
func (h *PlayerHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

type validator interface {
	Validate() error
}

func decodeValid(r *http.Request, req validator) error {
	if err := request.Decode(r, req, false); err != nil {
		return err
	}
	return req.Validate()
}

func writeAuth(w http.ResponseWriter, r *http.Request, status int, session *auth.Session, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, status, response.AuthResponseFromSession(session))
}
