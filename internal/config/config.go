// Package config loads splitterd settings from the environment.
package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything splitterd needs to start.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string `env:"SPLITTERD_ADDR" envDefault:":8080"`

	// DBPath is the SQLite database file. Parent directories are created
	// on first open.
	DBPath string `env:"SPLITTERD_DB_PATH" envDefault:"./data/splitter.db"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads a local .env file when present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level converts the configured log level string to a slog.Level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
