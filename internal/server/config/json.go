package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/monyze/internal/flagx"
	"github.com/dmitrijs2005/monyze/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations accept
// both "720h" strings and integer nanoseconds. Pointer fields distinguish
// "absent" from the zero value so a partial file only overrides what it names.
type JsonConfig struct {
	HTTPAddr           string          `json:"http_addr"`
	DatabaseDSN        string          `json:"database_dsn"`
	StorageType        string          `json:"storage_type"`
	SecretKey          string          `json:"secret_key"`
	SessionMaxAge      *timex.Duration `json:"session_max_age"`
	BcryptCost         *int            `json:"bcrypt_cost"`
	CookieSecure       *bool           `json:"cookie_secure"`
	CORSAllowedOrigins string          `json:"cors_allowed_origins"`
	GinMode            string          `json:"gin_mode"`
	LogFormat          string          `json:"log_format"`
	LogLevel           string          `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Nothing is loaded when neither flag is given.
func parseJson(config *Config) error {

	jsonConfigFile := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("error parsing config file: %w", err)
	}

	overlay(&config.HTTPAddr, c.HTTPAddr)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.StorageType, c.StorageType)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.CORSAllowedOrigins, c.CORSAllowedOrigins)
	overlay(&config.GinMode, c.GinMode)
	overlay(&config.LogFormat, c.LogFormat)
	overlay(&config.LogLevel, c.LogLevel)

	if c.SessionMaxAge != nil {
		config.SessionMaxAge = c.SessionMaxAge.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}

	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
