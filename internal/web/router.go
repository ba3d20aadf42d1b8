package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	sharedmw "github.com/mcoot/tetrisgame-go/internal/middleware"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/storage"
	"github.com/mcoot/tetrisgame-go/internal/web/handler"
	"github.com/mcoot/tetrisgame-go/internal/web/middleware"
	"github.com/mcoot/tetrisgame-go/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	SessionManager *session.Manager
	Storage        storage.Storage
	HubManager     *sse.HubManager
	StaticDir      string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register adds the web routes to an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	// Create middleware
	loggingMiddleware := sharedmw.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Create SSE hub manager if not provided
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.Storage, cfg.Logger)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	playHandler := handler.NewPlayHandler(cfg.SessionManager, hubManager, cfg.Logger)

	// Static files
	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	// Public routes (optional auth for showing player info in nav)
	public := r.NewRoute().Subrouter()
	public.Use(sharedmw.RequestID, loggingMiddleware, recoveryMiddleware, flashMiddleware, optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	// Auth actions (no auth required)
	authRoutes := r.PathPrefix("/auth").Subrouter()
	authRoutes.Use(sharedmw.RequestID, loggingMiddleware, recoveryMiddleware, flashMiddleware, optionalAuthMiddleware)
	authRoutes.HandleFunc("/guest", authHandler.CreateGuest).Methods(http.MethodPost)
	authRoutes.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	authRoutes.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRoutes.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.PathPrefix("/play").Subrouter()
	protected.Use(sharedmw.RequestID, loggingMiddleware, recoveryMiddleware, flashMiddleware, authMiddleware)
	protected.HandleFunc("", playHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/{id}", playHandler.View).Methods(http.MethodGet)
	protected.HandleFunc("/{id}/board", playHandler.Board).Methods(http.MethodGet)
	protected.HandleFunc("/{id}/command", playHandler.Command).Methods(http.MethodPost)
	protected.HandleFunc("/{id}/events", playHandler.Events).Methods(http.MethodGet)
	protected.HandleFunc("/{id}/end", playHandler.End).Methods(http.MethodPost)
}
