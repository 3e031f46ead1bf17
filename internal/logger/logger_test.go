package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")

	l.Info("generation", "created %d dues", 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created 2 dues", entry["msg"])
	assert.Equal(t, "generation", entry["component"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "text")

	l.Info("due", "hidden")
	assert.Empty(t, buf.String())

	l.Warn("due", "shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	l.SetLevel("debug")
	l.Debug("", "now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
