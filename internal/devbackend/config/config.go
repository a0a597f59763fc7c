// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Addr: bind address for the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside local runs.
//   - TokenValidityDuration: lifetime of issued bearer tokens.
//   - OTPValidityDuration: lifetime of verification and reset codes.
//   - LogFormat: "text" or "json".
type Config struct {
	Addr                  string
	SecretKey             string
	TokenValidityDuration time.Duration
	OTPValidityDuration   time.Duration
	LogFormat             string
}

// LoadDefaults populates Config with local development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8080"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 24 * time.Hour
	c.OTPValidityDuration = 10 * time.Minute
	c.LogFormat = "text"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
