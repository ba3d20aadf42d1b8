package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/tetrisgame-go/internal/api"
	"github.com/mcoot/tetrisgame-go/internal/config"
	"github.com/mcoot/tetrisgame-go/internal/factory"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	redisstorage "github.com/mcoot/tetrisgame-go/internal/storage/redis"
	"github.com/mcoot/tetrisgame-go/internal/web"
)

func main() {
	cfg, err := config.Load(".", "/etc/tetris")
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factoryCfg := factory.Config{
		AuthConfig: auth.Config{
			SessionDuration: cfg.SessionDuration,
			BcryptCost:      auth.DefaultConfig().BcryptCost,
		},
		SessionConfig: session.Config{
			TickRate:    cfg.TickRate,
			IdleTimeout: cfg.IdleTimeout,
		},
		Logger:      logger,
		StorageType: cfg.StorageType,
		SQLitePath:  cfg.SQLitePath,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(ctx, factoryCfg)
	if err != nil {
		return err
	}

	// API and web share one router; the API lives under /api/v1
	router := mux.NewRouter()
	api.Register(router, api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		SessionManager: app.SessionManager,
		Storage:        app.Storage,
	})
	web.Register(router, web.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		SessionManager: app.SessionManager,
		Storage:        app.Storage,
		HubManager:     app.HubManager,
		StaticDir:      staticDir(cfg.StaticDir),
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		sweep(gctx, app, cfg.SweepEvery, logger)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverConfig.ShutdownTimeout)
		defer cancel()
		serverErr := server.Shutdown(shutdownCtx)
		if err := app.Close(shutdownCtx); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
		return serverErr
	})

	return g.Wait()
}

// sweep periodically ends idle sessions and drops expired auth tokens
func sweep(ctx context.Context, app *factory.App, every time.Duration, logger *slog.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ended := app.SessionManager.SweepIdle(ctx)
			expired := app.AuthService.CleanExpiredSessions()
			if ended > 0 || expired > 0 {
				logger.Info("sweep finished",
					slog.Int("idle_sessions", ended),
					slog.Int("expired_tokens", expired),
				)
			}
		}
	}
}

// staticDir returns the configured static directory if it exists, else the
// first of the usual locations that does. Empty means no static route.
func staticDir(configured string) string {
	candidates := []string{
		configured,
		"internal/web/static",
		filepath.Join(os.Getenv("PWD"), "internal/web/static"),
	}

	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}
