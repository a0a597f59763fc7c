package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/castkeeper/internal/flagx"
	"github.com/dmitrijs2005/castkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "empty" so a partial file only touches
// the keys it names.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionBackend *string         `json:"session_backend"`
	SessionDB      *string         `json:"session_db"`
	RedisAddr      *string         `json:"redis_addr"`
	SessionTTL     *timex.Duration `json:"session_ttl"`
	LogFormat      *string         `json:"log_format"`
	LogFile        *string         `json:"log_file"`
}

// parseJson overlays Config with values loaded from the JSON file chosen by
// flagx.ConfigPath. It returns quietly when no file is selected and panics
// on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionBackend != nil {
		cfg.SessionBackend = *jc.SessionBackend
	}
	if jc.SessionDB != nil {
		cfg.SessionDB = *jc.SessionDB
	}
	if jc.RedisAddr != nil {
		cfg.RedisAddr = *jc.RedisAddr
	}
	if jc.SessionTTL != nil {
		cfg.SessionTTL = jc.SessionTTL.Duration
	}
	if jc.LogFormat != nil {
		cfg.LogFormat = *jc.LogFormat
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
}
