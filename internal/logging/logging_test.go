package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, LevelFromString(in), in)
	}
}

func TestNew(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New("info", "json", &buf)
		logger.Debug("hidden")
		logger.Info("ranked", "file", "a.kt")

		var rec map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
		assert.Equal(t, "ranked", rec["msg"])
		assert.Equal(t, "a.kt", rec["file"])
	})

	t.Run("Text", func(t *testing.T) {
		var buf bytes.Buffer
		New("warn", "text", &buf).Warn("skipped", "file", "b.kt")
		assert.Contains(t, buf.String(), "file=b.kt")
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger)
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelError} {
		assert.False(t, logger.Enabled(context.Background(), level))
	}
}
