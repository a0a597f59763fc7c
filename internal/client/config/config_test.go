package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"castkeeper"}, args...)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvAPIBaseURL, EnvRequestTimeout, EnvSessionBackend, EnvSessionDB,
		EnvRedisAddr, EnvSessionTTL, EnvLogFormat, EnvLogFile, "CASTKEEPER_CONFIG",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.APIBaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, SessionSQLite, c.SessionBackend)
	assert.Equal(t, "castkeeper.db", c.SessionDB)
	assert.Equal(t, "text", c.LogFormat)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	clearEnv(t)
	setArgs(t)
	t.Chdir(t.TempDir())

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "http://api:9090", "-t", "3", "-s", "redis", "-d", "x.db", "-r", "cache:6379", "-l", "json"},
			expected: &Config{
				APIBaseURL:     "http://api:9090",
				RequestTimeout: 3 * time.Second,
				SessionBackend: SessionRedis,
				SessionDB:      "x.db",
				RedisAddr:      "cache:6379",
				LogFormat:      "json",
			},
		},
		{
			name:     "unset timeout keeps sub-second value",
			args:     []string{"-a", "http://api"},
			expected: &Config{APIBaseURL: "http://api", RequestTimeout: 1500 * time.Millisecond},
		},
		{name: "bad timeout", args: []string{"-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setArgs(t, tt.args...)
			cfg := &Config{RequestTimeout: 1500 * time.Millisecond}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte(
		"CASTKEEPER_API_URL=http://from-dotenv\n"+
			"CASTKEEPER_SESSION_BACKEND=memory\n"+
			"CASTKEEPER_REQUEST_TIMEOUT=2s\n",
	), 0o600))
	t.Setenv(EnvAPIBaseURL, "http://from-env")
	t.Setenv(EnvSessionTTL, "1h")

	cfg := defaults()
	parseEnv(cfg, dotenv)

	assert.Equal(t, "http://from-env", cfg.APIBaseURL, "process env wins over .env")
	assert.Equal(t, SessionMemory, cfg.SessionBackend)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "castkeeper.db", cfg.SessionDB)
}

func TestParseEnv_MissingDotenvIsFine(t *testing.T) {
	clearEnv(t)
	cfg := defaults()
	require.NotPanics(t, func() { parseEnv(cfg, filepath.Join(t.TempDir(), ".env")) })
	assert.Empty(t, cmp.Diff(defaults(), cfg))
}

func TestParseEnv_BadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvRequestTimeout, "soon")
	require.Panics(t, func() { parseEnv(defaults(), "") })
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	clearEnv(t)

	t.Run("partial overlay", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"api_base_url":    "http://json:1",
			"request_timeout": "250ms",
			"session_ttl":     int64(time.Minute),
		})
		setArgs(t, "-c", path)

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, "http://json:1", cfg.APIBaseURL)
		assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
		assert.Equal(t, time.Minute, cfg.SessionTTL)
		assert.Equal(t, SessionSQLite, cfg.SessionBackend)
	})

	t.Run("path from environment", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"log_format": "json", "log_file": ""})
		setArgs(t)
		t.Setenv("CASTKEEPER_CONFIG", path)

		cfg := defaults()
		parseJson(cfg)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, "", cfg.LogFile)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ nope`), 0o600))
		setArgs(t, "-config", bad)
		require.Panics(t, func() { parseJson(defaults()) })
	})
}

func TestLoadConfig_Precedence(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv(EnvAPIBaseURL, "http://env")
	t.Setenv(EnvSessionDB, "env.db")
	path := writeTempJSON(t, map[string]any{"api_base_url": "http://json", "redis_addr": "json:6379"})
	setArgs(t, "-c", path, "-a", "http://flag")

	cfg := LoadConfig()

	assert.Equal(t, "http://flag", cfg.APIBaseURL)
	assert.Equal(t, "env.db", cfg.SessionDB)
	assert.Equal(t, "json:6379", cfg.RedisAddr)
}
