package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/siem/backend/asset-visibility/pkg/logger"
)

func captureJSON(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.Configure(level, "json", &buf)
	t.Cleanup(func() { logger.Configure("info", "text", os.Stdout) })
	return &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestInfoContext_CarriesTraceID(t *testing.T) {
	buf := captureJSON(t, "info")
	ctx := logger.WithTraceID(context.Background(), "trace-123")

	logger.InfoContext(ctx, "Collector: Cycle %s finished", "c-1")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "Collector: Cycle c-1 finished", lines[0]["msg"])
	assert.Equal(t, "trace-123", lines[0]["trace_id"])
	assert.Equal(t, "info", lines[0]["level"])
}

func TestLevelFiltering(t *testing.T) {
	buf := captureJSON(t, "warn")

	logger.InfoContext(context.Background(), "dropped")
	logger.Debug("dropped")
	logger.WarnContext(context.Background(), "kept")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	_, hasTrace := lines[0]["trace_id"]
	assert.False(t, hasTrace)
}

func TestContextWithFields(t *testing.T) {
	buf := captureJSON(t, "info")

	logger.ErrorContextWithFields(context.Background(), "fetch failed", map[string]interface{}{"dimension": "regional"})

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "regional", lines[0]["dimension"])
	assert.Equal(t, "error", lines[0]["level"])
}

func TestTraceID(t *testing.T) {
	assert.Equal(t, "", logger.TraceID(context.Background()))
	assert.Equal(t, "abc", logger.TraceID(logger.WithTraceID(context.Background(), "abc")))
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	buf := captureJSON(t, "verbose")

	logger.Info("visible")
	logger.Debug("hidden")

	assert.Len(t, decodeLines(t, buf), 1)
}
