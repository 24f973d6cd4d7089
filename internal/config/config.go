package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	dirName  = ".items"
	fileName = "config.yaml"
)

// Config holds the client's local settings.
// The API base URL is fixed and is not part of it.
type Config struct {
	// Output theme for the one-shot commands: classic, neon or mono.
	Theme string `yaml:"theme"`

	Log   LogConfig   `yaml:"log"`
	Serve ServeConfig `yaml:"serve"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty discards client logs
}

// ServeConfig configures the development API server.
type ServeConfig struct {
	Addr     string `yaml:"addr"`
	DataFile string `yaml:"data_file"`
}

var themes = []string{"classic", "neon", "mono"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Theme: "classic",
		Log: LogConfig{
			Level: "info",
		},
		Serve: ServeConfig{
			Addr: ":5000",
		},
	}
}

// DefaultPath is ~/.items/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, dirName, fileName), nil
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes cfg to path, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("ITEMS_THEME")); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("ITEMS_LOG_FILE")); v != "" {
		c.Log.File = v
	}
}

// Validate checks the theme and log level.
func (c *Config) Validate() error {
	known := false
	for _, t := range themes {
		if strings.EqualFold(c.Theme, t) {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown theme %q (want one of %s)", c.Theme, strings.Join(themes, ", "))
	}
	if _, err := zap.ParseAtomicLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if c.Serve.Addr == "" {
		return errors.New("serve.addr is empty")
	}
	return nil
}
