package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incident.log")
	logger, level, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)

	assert.Equal(t, zapcore.DebugLevel, level.Level())
	logger.Info("turn processed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"turn processed"`)
}

func TestNew_AtomicLevelQuietsLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "incident.log")
	logger, level, err := New(Options{File: path})
	require.NoError(t, err)

	level.SetLevel(zapcore.ErrorLevel)
	logger.Warn("hidden")
	logger.Error("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, _, err := New(Options{Level: "chatty"})
	assert.Error(t, err)
}
