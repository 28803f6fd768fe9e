package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the client needs to talk to the API and keep
// local state.
type Config struct {
	APIURL      string
	StateDir    string
	LogLevel    string
	HTTPTimeout time.Duration
}

// Load reads configuration from a .env file (if present) and environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	// Ignore the error: no .env file is the normal case for an installed binary.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:   getEnv("CONVENE_API_URL", "https://api.convene.events"),
		StateDir: getEnv("CONVENE_STATE_DIR", ""),
		LogLevel: getEnv("CONVENE_LOG_LEVEL", "info"),
	}

	timeout := getEnv("CONVENE_HTTP_TIMEOUT", "30s")
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("parse CONVENE_HTTP_TIMEOUT %q: %w", timeout, err)
	}
	cfg.HTTPTimeout = d

	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		cfg.StateDir = filepath.Join(home, ".convene")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes before anything
// dials out.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("CONVENE_API_URL %q is not an absolute URL", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("CONVENE_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}

// LogPath is the file the structured logger writes to. Stdout belongs to
// the TUI.
func (c *Config) LogPath() string {
	return filepath.Join(c.StateDir, "convene.log")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
