package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Storage backend names accepted in STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config holds every runtime setting. Values come from the environment; the
// defaults match the original single-file deployment of this service.
type Config struct {
	Port               int      `envconfig:"PORT" default:"8000"`
	AllowedOrigins     []string `envconfig:"ALLOWED_ORIGINS" default:"https://ficrammanifur.github.io,http://localhost:3000,http://localhost:8080,http://127.0.0.1:3000,http://127.0.0.1:8080,https://localhost:3000,https://127.0.0.1:3000"`
	StoreBackend       string   `envconfig:"STORE_BACKEND" default:"file"`
	MessagesFile       string   `envconfig:"MESSAGES_FILE" default:"messages.json"`
	BadgerPath         string   `envconfig:"BADGER_PATH" default:"badger-data"`
	DatabaseURL        string   `envconfig:"DATABASE_URL"`
	MaxMessages        int      `envconfig:"MAX_MESSAGES" default:"10"`
	CleanupLimit       int      `envconfig:"CLEANUP_LIMIT" default:"5"`
	LogLevel           string   `envconfig:"LOG_LEVEL" default:"INFO"`
	RateLimitPerMinute int      `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendBadger, BackendPostgres:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendPostgres && c.DatabaseURL == "" {
		return fmt.Errorf("config: DATABASE_URL is required for the postgres backend")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.MaxMessages < 1 {
		return fmt.Errorf("config: MAX_MESSAGES must be positive, got %d", c.MaxMessages)
	}
	if c.CleanupLimit < 1 {
		return fmt.Errorf("config: CLEANUP_LIMIT must be positive, got %d", c.CleanupLimit)
	}
	if c.RateLimitPerMinute < 1 {
		return fmt.Errorf("config: RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
