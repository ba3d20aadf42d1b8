package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tetrisgame-go/internal/api/handler"
	"github.com/mcoot/tetrisgame-go/internal/api/middleware"
	"github.com/mcoot/tetrisgame-go/internal/api/response"
	sharedmw "github.com/mcoot/tetrisgame-go/internal/middleware"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	SessionManager *session.Manager
	Storage        storage.Storage
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the API routes under /api/v1 on an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	playerHandler := handler.NewPlayerHandler(cfg.AuthService)
	sessionHandler := handler.NewSessionHandler(cfg.SessionManager)
	scoreHandler := handler.NewScoreHandler(cfg.Storage)

	authMiddleware := middleware.Auth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(sharedmw.RequestID, sharedmw.Logging(cfg.Logger), middleware.Recovery(cfg.Logger))

	// Health check (no auth)
	api.HandleFunc("/health", healthHandler(cfg.SessionManager)).Methods(http.MethodGet)

	// Player routes (no auth required for creating players/logging in)
	api.HandleFunc("/players/guest", playerHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/players/register", playerHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/players/login", playerHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}/best", scoreHandler.PlayerBest).Methods(http.MethodGet)

	// Protected player routes
	playerProtected := api.PathPrefix("/players").Subrouter()
	playerProtected.Use(authMiddleware)
	playerProtected.HandleFunc("/me", playerHandler.GetMe).Methods(http.MethodGet)

	// Leaderboard (public)
	api.HandleFunc("/scores", scoreHandler.Top).Methods(http.MethodGet)

	// Session routes (all require auth)
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/commands", sessionHandler.Command).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/tick", sessionHandler.Tick).Methods(http.MethodPost)
}

// healthHandler reports liveness plus the number of live sessions
func healthHandler(manager *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status:   "ok",
			Sessions: manager.Count(),
		})
	}
}
