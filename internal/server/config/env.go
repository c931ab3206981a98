package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/monyze/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv. DATABASE_URL and NEXTAUTH_SECRET
// are the names the web frontend already uses.
const (
	envHTTPAddr      = "MONYZE_HTTP_ADDR"
	envDatabaseURL   = "DATABASE_URL"
	envStorage       = "MONYZE_STORAGE"
	envSecretKey     = "MONYZE_SECRET_KEY"
	envNextAuth      = "NEXTAUTH_SECRET"
	envSessionMaxAge = "MONYZE_SESSION_MAX_AGE"
	envBcryptCost    = "MONYZE_BCRYPT_COST"
	envCookieSecure  = "MONYZE_COOKIE_SECURE"
	envCORSOrigins   = "CORS_ALLOWED_ORIGINS"
	envGinMode       = "GIN_MODE"
	envLogFormat     = "MONYZE_LOG_FORMAT"
	envLogLevel      = "MONYZE_LOG_LEVEL"
)

// parseEnv loads the dotenv file named by -env (default ".env") if it exists,
// then overlays every variable that is set. Variables already present in the
// process environment win over the file.
func parseEnv(config *Config) error {
	if err := godotenv.Load(flagx.EnvFile(os.Args[1:])); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error loading env file: %w", err)
	}

	setString(&config.HTTPAddr, envHTTPAddr)
	setString(&config.DatabaseDSN, envDatabaseURL)
	setString(&config.StorageType, envStorage)
	setString(&config.SecretKey, envNextAuth)
	setString(&config.SecretKey, envSecretKey)
	setString(&config.CORSAllowedOrigins, envCORSOrigins)
	setString(&config.GinMode, envGinMode)
	setString(&config.LogFormat, envLogFormat)
	setString(&config.LogLevel, envLogLevel)

	if v, ok := os.LookupEnv(envSessionMaxAge); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envSessionMaxAge, err)
		}
		config.SessionMaxAge = d
	}
	if v, ok := os.LookupEnv(envBcryptCost); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envBcryptCost, err)
		}
		config.BcryptCost = n
	}
	if v, ok := os.LookupEnv(envCookieSecure); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envCookieSecure, err)
		}
		config.CookieSecure = b
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
