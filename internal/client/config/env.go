package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DotEnvFile is read from the working directory when it exists. Variables
// already set in the process environment win over it.
const DotEnvFile = ".env"

// Environment variables.
const (
	EnvAPIBaseURL     = "CASTKEEPER_API_URL"
	EnvRequestTimeout = "CASTKEEPER_REQUEST_TIMEOUT"
	EnvSessionBackend = "CASTKEEPER_SESSION_BACKEND"
	EnvSessionDB      = "CASTKEEPER_SESSION_DB"
	EnvRedisAddr      = "CASTKEEPER_REDIS_ADDR"
	EnvSessionTTL     = "CASTKEEPER_SESSION_TTL"
	EnvLogFormat      = "CASTKEEPER_LOG_FORMAT"
	EnvLogFile        = "CASTKEEPER_LOG_FILE"
)

// parseEnv loads dotenv (if present) and overlays every CASTKEEPER_*
// variable that is set. Durations use time.ParseDuration syntax. A malformed
// .env or duration panics, like the other loaders.
func parseEnv(cfg *Config, dotenv string) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	setString(&cfg.APIBaseURL, EnvAPIBaseURL)
	setDuration(&cfg.RequestTimeout, EnvRequestTimeout)
	setString(&cfg.SessionBackend, EnvSessionBackend)
	setString(&cfg.SessionDB, EnvSessionDB)
	setString(&cfg.RedisAddr, EnvRedisAddr)
	setDuration(&cfg.SessionTTL, EnvSessionTTL)
	setString(&cfg.LogFormat, EnvLogFormat)
	setString(&cfg.LogFile, EnvLogFile)
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		panic(err)
	}
	*dst = d
}
