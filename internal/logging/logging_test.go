package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/idilsaglam/items/internal/config"
)

func TestNew_NoFileIsNop(t *testing.T) {
	l, err := New(config.LogConfig{Level: "debug"}, false, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.log")
	l, err := New(config.LogConfig{Level: "warn", File: path}, false, false)
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	l.Warn("disk almost full")
	_ = l.Sync()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "disk almost full")
}

func TestNew_Verbose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.log")
	l, err := New(config.LogConfig{Level: "error", File: path}, false, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "shout", File: filepath.Join(t.TempDir(), "x.log")}, false, false)
	assert.ErrorContains(t, err, "log level")
}
