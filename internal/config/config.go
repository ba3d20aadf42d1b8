// Package config loads server settings from defaults, an optional tetris.yaml
// and TETRIS_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "TETRIS"

// Config holds the server settings
type Config struct {
	Host string
	Port int

	LogLevel slog.Level

	StorageType string
	RedisURL    string
	SQLitePath  string

	TickRate    time.Duration
	IdleTimeout time.Duration
	SweepEvery  time.Duration

	SessionDuration time.Duration
	StaticDir       string
}

// Load reads configuration. Paths are searched for tetris.yaml in order; a
// missing file is not an error.
func Load(paths ...string) (Config, error) {
	return load(viper.New(), paths)
}

func load(v *viper.Viper, paths []string) (Config, error) {
	setDefaults(v)

	v.SetConfigName("tetris")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	level, err := parseLevel(v.GetString("log_level"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Host:            v.GetString("host"),
		Port:            v.GetInt("port"),
		LogLevel:        level,
		StorageType:     v.GetString("storage_type"),
		RedisURL:        v.GetString("redis_url"),
		SQLitePath:      v.GetString("sqlite_path"),
		TickRate:        v.GetDuration("tick_rate"),
		IdleTimeout:     v.GetDuration("idle_timeout"),
		SweepEvery:      v.GetDuration("sweep_every"),
		SessionDuration: v.GetDuration("session_duration"),
		StaticDir:       v.GetString("static_dir"),
	}
	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("storage_type", "memory")
	v.SetDefault("redis_url", "")
	v.SetDefault("sqlite_path", "tetris.db")
	v.SetDefault("tick_rate", "50ms")
	v.SetDefault("idle_timeout", "30m")
	v.SetDefault("sweep_every", "1m")
	v.SetDefault("session_duration", "24h")
	v.SetDefault("static_dir", "")
}

// Validate checks settings that would otherwise fail later at startup
func (c Config) Validate() error {
	switch c.StorageType {
	case "memory", "sqlite":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("redis_url is required when storage_type is redis")
		}
	default:
		return fmt.Errorf("invalid storage_type %q: must be memory, redis or sqlite", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.TickRate < 0 {
		return errors.New("tick_rate must not be negative")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}
