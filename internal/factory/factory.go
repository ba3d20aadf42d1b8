package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/clock"
	"github.com/mcoot/tetrisgame-go/internal/dependencies/random"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/scoring"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/storage"
	"github.com/mcoot/tetrisgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/tetrisgame-go/internal/storage/redis"
	sqlitestorage "github.com/mcoot/tetrisgame-go/internal/storage/sqlite"
	"github.com/mcoot/tetrisgame-go/internal/web/sse"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger

	// Services
	BoardService   *board.Service
	ScoringService *scoring.Service
	GameController *game.Controller
	SessionManager *session.Manager
	AuthService    *auth.Service
	HubManager     *sse.HubManager
	Broadcaster    *sse.Broadcaster

	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// SessionConfig holds configuration for the session manager (optional)
	// If zero value, defaults to session.DefaultConfig()
	SessionConfig session.Config
	// ScoringConfig holds the scoring policy (optional)
	// If zero value, defaults to scoring.DefaultConfig()
	ScoringConfig scoring.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Fill in defaults for anything not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	sessionCfg := cfg.SessionConfig
	if sessionCfg == (session.Config{}) {
		sessionCfg = session.DefaultConfig()
	}
	scoringCfg := cfg.ScoringConfig
	if len(scoringCfg.LineBonus) == 0 {
		scoringCfg = scoring.DefaultConfig()
	}

	app := newWithDependencies(store, clk, rnd, authCfg, sessionCfg, scoringCfg, logger)
	app.closer = closer
	return app, nil
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, io.Closer, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil, nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, nil, err
		}
		return redisStore, redisStore, nil
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqliteStore, sqliteStore, nil
	default:
		return nil, nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	authCfg auth.Config,
	sessionCfg session.Config,
	scoringCfg scoring.Config,
	logger *slog.Logger,
) *App {
	// Create services
	boardService := board.New()
	scoringService := scoring.New(scoringCfg)
	gameController := game.NewController(boardService, scoringService, clk, rnd, logger)
	sessionManager := session.NewManager(gameController, store, clk, rnd, logger, sessionCfg)
	authService := auth.New(store, clk, rnd, logger, authCfg)

	// SSE clients follow sessions through the manager's event stream
	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, sessionManager, logger)
	sessionManager.AddObserver(broadcaster)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Logger:         logger,
		BoardService:   boardService,
		ScoringService: scoringService,
		GameController: gameController,
		SessionManager: sessionManager,
		AuthService:    authService,
		HubManager:     hubManager,
		Broadcaster:    broadcaster,
	}
}

// Close ends every running session and releases the storage backend
func (a *App) Close(ctx context.Context) error {
	a.SessionManager.Shutdown(ctx)
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}
