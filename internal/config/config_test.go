package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv("ITEMS_THEME", "")
	t.Setenv("ITEMS_LOG_LEVEL", "")
	t.Setenv("ITEMS_LOG_FILE", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Log.File)
	assert.Equal(t, ":5000", cfg.Serve.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Theme = "neon"
	cfg.Log.File = "/tmp/items.log"
	cfg.Serve.DataFile = "items.json"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, ":5000", cfg.Serve.Addr)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed"), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ITEMS_THEME", "mono")
	t.Setenv("ITEMS_LOG_LEVEL", "warn")
	t.Setenv("ITEMS_LOG_FILE", "/var/log/items.log")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/var/log/items.log", cfg.Log.File)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown theme", func(c *Config) { c.Theme = "rainbow" }, "unknown theme"},
		{"theme is case insensitive", func(c *Config) { c.Theme = "NEON" }, ""},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
		{"no addr", func(c *Config) { c.Serve.Addr = "" }, "serve.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
