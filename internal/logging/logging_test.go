package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "exphil.log")

	logger, err := New("production", path)
	require.NoError(t, err)
	logger.Info("load complete", zap.String("category", "00"), zap.Int("count", 12))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, `"msg":"load complete"`)
	assert.Contains(t, line, `"category":"00"`)
	assert.Contains(t, line, `"count":12`)
}

func TestNew_DevelopmentIsConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")

	logger, err := New("local", path)
	require.NoError(t, err)
	logger.Debug("stale load ignored")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "DEBUG"), "development logger should log debug: %q", data)
}

func TestNew_ProductionSkipsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prod.log")

	logger, err := New("production", path)
	require.NoError(t, err)
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
}

func TestDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	p, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "exphil", "exphil.log"), p)
}
