package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestLogrusLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(FormatJSON, &buf, true)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.With("component", "gateway").Warn(ctx, "slow", "path", "/api/auth/login")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)

	require.Equal(t, "debug", lines[0]["level"])
	require.Equal(t, "dbg", lines[0]["msg"])
	require.EqualValues(t, 1, lines[0]["a"])

	require.Equal(t, "warning", lines[1]["level"])
	require.Equal(t, "gateway", lines[1]["component"])
	require.Equal(t, "/api/auth/login", lines[1]["path"])
}

func TestLogrusLogger_InfoLevelHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(FormatJSON, &buf, false)

	log.Debug(context.Background(), "hidden")
	log.Error(context.Background(), "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	require.Equal(t, "shown", lines[0]["msg"])
}

func TestToFields_DanglingValue(t *testing.T) {
	f := toFields([]any{"k", "v", 42, "x", "lonely"})
	require.Equal(t, "v", f["k"])
	require.Equal(t, "x", f["42"])
	require.Equal(t, "lonely", f["!BADKEY"])
}

func TestLogrusLogger_RequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(FormatJSON, &buf, false)

	log.Info(ContextWithRequestID(context.Background(), "req-7"), "sent")
	log.Info(context.Background(), "plain")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	require.Equal(t, "req-7", lines[0][RequestIDKey])
	require.NotContains(t, lines[1], RequestIDKey)
}
