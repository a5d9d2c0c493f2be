package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the REST gateway configuration.
type Config struct {
	// StaticDir holds the built frontend served at "/".
	StaticDir      string        `yaml:"static_dir"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxBodySize    int64         `yaml:"max_body_size"`
}

func DefaultConfig() Config {
	return Config{
		StaticDir:      "static/dist",
		RequestTimeout: 30 * time.Second,
		MaxBodySize:    1 << 20,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (g *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if g.StaticDir == "" {
		g.StaticDir = defaults.StaticDir
	}
	if g.RequestTimeout == 0 {
		g.RequestTimeout = defaults.RequestTimeout
	}
	if g.MaxBodySize == 0 {
		g.MaxBodySize = defaults.MaxBodySize
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (g *Config) ApplyEnvOverrides() {
	if val := os.Getenv("STATIC_DIR"); val != "" {
		g.StaticDir = val
	}
}

// ResolvePaths resolves a relative static dir against the parent of the
// config directory, so that "static/dist" sits next to "config/".
func (g *Config) ResolvePaths(configDir string) {
	if g.StaticDir == "" || filepath.IsAbs(g.StaticDir) {
		return
	}
	g.StaticDir = filepath.Clean(filepath.Join(filepath.Dir(configDir), g.StaticDir))
}

// Validate returns an error if the configuration is invalid.
func (g *Config) Validate() error {
	if g.RequestTimeout < 0 {
		return fmt.Errorf("gateway.request_timeout must not be negative")
	}
	if g.MaxBodySize < 0 {
		return fmt.Errorf("gateway.max_body_size must not be negative")
	}
	return nil
}
