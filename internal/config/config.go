package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	storage "github.com/syntrixbase/ufoatlas/internal/core/storage/config"
	gateway "github.com/syntrixbase/ufoatlas/internal/gateway/config"
	server "github.com/syntrixbase/ufoatlas/internal/server"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server  server.Config  `yaml:"server"`
	Gateway gateway.Config `yaml:"gateway"`
	Storage storage.Config `yaml:"storage"`
	Logging LoggingConfig  `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no files are present.
func DefaultConfig() *Config {
	return &Config{
		Server:  server.DefaultConfig(),
		Gateway: gateway.DefaultConfig(),
		Storage: storage.DefaultConfig(),
		Logging: DefaultLoggingConfig(),
	}
}

// LoadConfig loads configuration from files and environment variables.
// Order: defaults -> config.yml -> config.local.yml -> ApplyDefaults -> ApplyEnvOverrides -> ResolvePaths -> Validate
func LoadConfig(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = "config"
	}

	// 1. Start with default values (so YAML can override them, including bool fields)
	cfg := DefaultConfig()

	// 2. Load config.yml (overrides defaults)
	loadFile(filepath.Join(configDir, "config.yml"), cfg)

	// 3. Load config.local.yml (overrides config.yml)
	loadFile(filepath.Join(configDir, "config.local.yml"), cfg)

	// 4. Apply configuration lifecycle
	if err := ApplyServiceConfigs(configDir,
		&cfg.Server,
		&cfg.Gateway,
		&cfg.Storage,
		&cfg.Logging,
	); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return cfg, nil
}

func loadFile(filename string, cfg *Config) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return // File doesn't exist, skip
		}
		log.Printf("Warning: Error reading %s: %v", filename, err)
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("Warning: Error parsing %s: %v", filename, err)
	}
}
