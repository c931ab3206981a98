// Package config handles configuration for the Monyze CLI: defaults, an
// optional JSON file (-c/-config), then environment variables. Command-line
// flags declared by the CLI override the result.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/monyze/internal/flagx"
)

// Config holds runtime settings for the Monyze CLI.
//
// Fields:
//   - ServerURL: base URL of the Monyze server.
//   - DatabasePath: local SQLite file holding the saved session; "~" is expanded.
//   - RequestTimeout: per-request HTTP timeout.
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
}

const (
	envServerURL    = "MONYZE_SERVER_URL"
	envDatabasePath = "MONYZE_CLIENT_DB"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.DatabasePath = "~/.monyze/monyze.db"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config from defaults, the JSON file named in args,
// and the environment. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, flagx.ConfigFile(args)); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}

func parseEnv(cfg *Config) {
	if v := os.Getenv(envServerURL); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
}

// Validate rejects settings the CLI cannot run with.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
