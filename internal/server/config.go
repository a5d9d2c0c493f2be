package server

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the HTTP server.
type Config struct {
	Host string `yaml:"host"`

	// HTTP Configuration
	HTTPPort         int           `yaml:"http_port"`
	HTTPReadTimeout  time.Duration `yaml:"http_read_timeout"`
	HTTPWriteTimeout time.Duration `yaml:"http_write_timeout"`
	HTTPIdleTimeout  time.Duration `yaml:"http_idle_timeout"`

	// CORS Configuration
	EnableCORS     bool     `yaml:"enable_cors"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	CORSMaxAge     int      `yaml:"cors_max_age"`

	// Lifecycle Configuration
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns safe defaults for development.
func DefaultConfig() Config {
	return Config{
		Host:             "0.0.0.0",
		HTTPPort:         3000,
		HTTPReadTimeout:  10 * time.Second,
		HTTPWriteTimeout: 30 * time.Second,
		HTTPIdleTimeout:  60 * time.Second,
		EnableCORS:       true,
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		CORSMaxAge:       300,
		ShutdownTimeout:  10 * time.Second,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Host == "" {
		c.Host = defaults.Host
	}
	if c.HTTPPort == 0 {
		c.HTTPPort = defaults.HTTPPort
	}
	if c.HTTPReadTimeout == 0 {
		c.HTTPReadTimeout = defaults.HTTPReadTimeout
	}
	if c.HTTPWriteTimeout == 0 {
		c.HTTPWriteTimeout = defaults.HTTPWriteTimeout
	}
	if c.HTTPIdleTimeout == 0 {
		c.HTTPIdleTimeout = defaults.HTTPIdleTimeout
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = defaults.AllowedOrigins
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = defaults.AllowedMethods
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = defaults.AllowedHeaders
	}
	if c.CORSMaxAge == 0 {
		c.CORSMaxAge = defaults.CORSMaxAge
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
}

// ApplyEnvOverrides applies environment variable overrides.
func (c *Config) ApplyEnvOverrides() {
	if val := os.Getenv("HTTP_HOST"); val != "" {
		c.Host = val
	}
	if val := os.Getenv("HTTP_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.HTTPPort = port
		}
	}
}

// ResolvePaths resolves relative paths using the given base directory.
// No paths to resolve in server config.
func (c *Config) ResolvePaths(_ string) { _ = c }

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port out of range: %d", c.HTTPPort)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	return nil
}
