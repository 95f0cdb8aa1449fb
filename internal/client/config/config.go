// Package config loads runtime configuration for the JobDeck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present.
//  3. Environment variables (JOBDECK_* keys).
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the JobDeck API gateway
//	-t int      request timeout (seconds)
//	-d string   data directory for the local state database
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime settings for the JobDeck CLI.
type Config struct {
	// APIBaseURL is the root of the REST gateway, including the /api
	// prefix. Endpoint paths are resolved against it.
	APIBaseURL string `env:"JOBDECK_API_URL"`
	// RequestTimeout bounds every API round trip.
	RequestTimeout time.Duration `env:"JOBDECK_REQUEST_TIMEOUT"`
	// DataDir is where the local sqlite state database lives.
	DataDir string `env:"JOBDECK_DATA_DIR"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"JOBDECK_LOG_LEVEL"`
	// LogPretty switches from JSON log lines to a human console format.
	LogPretty bool `env:"JOBDECK_LOG_PRETTY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000/api"
	c.RequestTimeout = 30 * time.Second
	c.DataDir = defaultDataDir()
	c.LogLevel = "info"
	c.LogPretty = false
}

// DatabaseDSN is the sqlite DSN for the local state database.
func (c *Config) DatabaseDSN() string {
	return filepath.Join(c.DataDir, "jobdeck.db")
}

// LoadConfig constructs a Config by applying defaults, then a .env file,
// then environment variables, then command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	// a missing .env is the normal case, not an error
	_ = godotenv.Load()

	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := parseFlags(cfg, os.Args[1:]); err != nil {
		return nil, fmt.Errorf("config: flags: %w", err)
	}
	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jobdeck"
	}
	return filepath.Join(home, ".jobdeck")
}
