// Package config loads the server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/icetlab/assettrack/auth"
)

// Config is everything the server needs to come up.
type Config struct {
	Addr        string
	DatabaseDSN string

	SigningSecret string
	TokenTTL      time.Duration

	LogLevel string

	// optional first-run admin account
	AdminUsername string
	AdminPassword string
}

// Load reads the configuration from the environment. The signing secret is the
// only value without a usable default.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:          envOr("ASSETTRACK_ADDR", ":8080"),
		DatabaseDSN:   envOr("ASSETTRACK_DB_DSN", "file:assettrack.db?_pragma=foreign_keys(1)"),
		SigningSecret: os.Getenv("ASSETTRACK_SIGNING_SECRET"),
		TokenTTL:      envDur("ASSETTRACK_TOKEN_TTL", auth.DefaultTokenTTL),
		LogLevel:      envOr("ASSETTRACK_LOG_LEVEL", "info"),
		AdminUsername: os.Getenv("ASSETTRACK_ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ASSETTRACK_ADMIN_PASSWORD"),
	}

	if cfg.SigningSecret == "" {
		return nil, errors.New("ASSETTRACK_SIGNING_SECRET must be set", errors.CategoryOperation)
	}
	if len(cfg.SigningSecret) < 32 {
		return nil, errors.New("ASSETTRACK_SIGNING_SECRET must be at least 32 bytes", errors.CategoryOperation)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// plain integers mean hours, matching how deployments configured the
	// previous backend
	if h, err := strconv.Atoi(v); err == nil && h > 0 {
		return time.Duration(h) * time.Hour
	}
	return fallback
}
