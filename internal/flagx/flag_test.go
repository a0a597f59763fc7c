package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value kept with its flag",
			args:    []string{"-a", "http://localhost:8080", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://localhost:8080"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=alt.json", "-a", "http://api"},
			allowed: []string{"-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "dash token is not consumed as value",
			args:    []string{"-c", "-t", "5"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-d"},
			allowed: []string{"-d"},
			want:    []string{"-d"},
		},
		{
			name:    "nothing allowed matches",
			args:    []string{"-x", "1", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "repeated flags keep order",
			args:    []string{"-s", "redis", "-s", "sqlite"},
			allowed: []string{"-s"},
			want:    []string{"-s", "redis", "-s", "sqlite"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigPath(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"castkeeper", "-c", "/etc/castkeeper.json"}
		assert.Equal(t, "/etc/castkeeper.json", ConfigPath())
	})

	t.Run("long flag wins over env", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/from/env.json")
		os.Args = []string{"castkeeper", "-config", "/from/flag.json"}
		assert.Equal(t, "/from/flag.json", ConfigPath())
	})

	t.Run("env fallback", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "/from/env.json")
		os.Args = []string{"castkeeper", "-a", "http://api"}
		assert.Equal(t, "/from/env.json", ConfigPath())
	})

	t.Run("nothing set", func(t *testing.T) {
		t.Setenv(ConfigEnvVar, "")
		os.Args = []string{"castkeeper"}
		assert.Empty(t, ConfigPath())
	})
}
