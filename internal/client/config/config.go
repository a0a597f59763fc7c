package config

import "time"

// Session backends.
const (
	SessionSQLite = "sqlite"
	SessionRedis  = "redis"
	SessionMemory = "memory"
)

// Config holds runtime settings for the castkeeper client.
//
// Fields:
//   - APIBaseURL: scheme://host:port of the REST backend.
//   - RequestTimeout: per-request HTTP timeout.
//   - SessionBackend: where the session survives restarts (sqlite, redis, memory).
//   - SessionDB: SQLite file for the sqlite backend.
//   - RedisAddr: host:port for the redis backend; SessionTTL bounds the stored key (0 keeps it).
//   - LogFormat / LogFile: "text" or "json"; empty LogFile means stderr.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	SessionBackend string
	SessionDB      string
	RedisAddr      string
	SessionTTL     time.Duration
	LogFormat      string
	LogFile        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.SessionBackend = SessionSQLite
	c.SessionDB = "castkeeper.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.SessionTTL = 0
	c.LogFormat = "text"
	c.LogFile = "castkeeper.log"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, DotEnvFile)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
