package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONWithSession(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	logger.Info("timer started", "total", "10s")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "timer started", rec["msg"])
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "10s", rec["total"])
	assert.Contains(t, rec, "ts")
	assert.NotContains(t, rec, "time")
	assert.NotEmpty(t, rec["session"])
}

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Output: &buf}).Debug("hidden")
	assert.Zero(t, buf.Len())

	New(Config{Output: &buf, Debug: true}).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestOpenFile(t *testing.T) {
	w, closeFn, err := OpenFile("")
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.NoError(t, closeFn())

	path := filepath.Join(t.TempDir(), "logs", "countdown.log")
	w, closeFn, err = OpenFile(path)
	require.NoError(t, err)
	New(Config{Output: w}).Warn("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
