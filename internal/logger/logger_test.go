package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/badge-adventure/internal/config"
)

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, &config.Config{Environment: "production", LogLevel: slog.LevelInfo}).Info("boot", "room", 3)
	assert.Contains(t, buf.String(), `"msg":"boot"`)
	assert.Contains(t, buf.String(), `"room":3`)

	buf.Reset()
	New(&buf, &config.Config{Environment: "development", LogLevel: slog.LevelInfo}).Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestSetupWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badge.log")
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	log, closer, err := Setup(&config.Config{LogFile: path, LogLevel: slog.LevelDebug})
	require.NoError(t, err)
	WithError(WithSession(log, "b-1"), errors.New("flash busy")).Warn("save failed")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "badge_id=b-1")
	assert.Contains(t, string(data), `error="flash busy"`)
}

func TestSetupBadPath(t *testing.T) {
	_, _, err := Setup(&config.Config{LogFile: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
