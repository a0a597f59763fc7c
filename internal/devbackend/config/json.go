package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/castkeeper/internal/flagx"
	"github.com/dmitrijs2005/castkeeper/internal/timex"
)

// JSONConfig is the file form of Config. Durations accept "10m" strings or
// integer nanoseconds. Absent keys leave the current value alone.
type JSONConfig struct {
	Addr                  *string         `json:"addr"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	OTPValidityDuration   *timex.Duration `json:"otp_validity_duration"`
	LogFormat             *string         `json:"log_format"`
}

// parseJSON overlays the file named by -c/-config (or $CASTKEEPER_CONFIG)
// onto config. No file selected is not an error.
func parseJSON(config *Config) error {
	path := flagx.ConfigPath()
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if c.Addr != nil {
		config.Addr = *c.Addr
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.OTPValidityDuration != nil {
		config.OTPValidityDuration = c.OTPValidityDuration.Duration
	}
	if c.LogFormat != nil {
		config.LogFormat = *c.LogFormat
	}
	return nil
}
