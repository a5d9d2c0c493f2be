package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// LoggingConfig controls the process-wide slog setup: a console sink, a
// rotating main log, a rotating warn+ log, and duplicate-warning suppression.
type LoggingConfig struct {
	Level    string         `yaml:"level"`
	Format   string         `yaml:"format"`
	Dir      string         `yaml:"dir"`
	Rotation RotationConfig `yaml:"rotation"`
	Console  SinkConfig     `yaml:"console"`
	File     SinkConfig     `yaml:"file"`

	// DedupWindow collapses identical warnings logged within the window
	// into one line carrying a suppressed count. Negative disables it.
	DedupWindow time.Duration `yaml:"dedup_window"`
}

// RotationConfig is handed to lumberjack for both log files.
type RotationConfig struct {
	MaxSizeMB  int   `yaml:"max_size"`
	MaxBackups int   `yaml:"max_backups"`
	MaxAgeDays int   `yaml:"max_age"`
	Compress   *bool `yaml:"compress"`
}

// CompressRotated reports whether rotated files are gzipped. Unset means yes.
func (r RotationConfig) CompressRotated() bool {
	return r.Compress == nil || *r.Compress
}

// SinkConfig configures one output. Empty Level and Format inherit the
// top-level values.
type SinkConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// On reports whether the sink is enabled. Unset means yes.
func (s SinkConfig) On() bool {
	return s.Enabled == nil || *s.Enabled
}

func DefaultLoggingConfig() LoggingConfig {
	c := LoggingConfig{}
	c.ApplyDefaults()
	return c
}

func (c *LoggingConfig) ApplyDefaults() {
	c.Level = strings.ToLower(orDefault(c.Level, "info"))
	c.Format = strings.ToLower(orDefault(c.Format, "text"))
	c.Dir = orDefault(c.Dir, "logs")
	if c.DedupWindow == 0 {
		c.DedupWindow = 10 * time.Second
	}
	if c.Rotation.MaxSizeMB == 0 {
		c.Rotation.MaxSizeMB = 100
	}
	if c.Rotation.MaxBackups == 0 {
		c.Rotation.MaxBackups = 10
	}
	if c.Rotation.MaxAgeDays == 0 {
		c.Rotation.MaxAgeDays = 30
	}
	for _, s := range []*SinkConfig{&c.Console, &c.File} {
		s.Level = strings.ToLower(orDefault(s.Level, c.Level))
		s.Format = strings.ToLower(orDefault(s.Format, c.Format))
	}
}

// ApplyEnvOverrides reads LOG_LEVEL, LOG_FORMAT and LOG_DIR. Level and
// format overrides apply to every sink.
func (c *LoggingConfig) ApplyEnvOverrides() {
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		val = strings.ToLower(val)
		c.Level, c.Console.Level, c.File.Level = val, val, val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		val = strings.ToLower(val)
		c.Format, c.Console.Format, c.File.Format = val, val, val
	}
	if val := os.Getenv("LOG_DIR"); val != "" {
		c.Dir = val
	}
}

// ResolvePaths places a relative log dir next to the config directory.
// A dir starting with ".." is taken relative to the config directory itself.
func (c *LoggingConfig) ResolvePaths(configDir string) {
	if c.Dir == "" || filepath.IsAbs(c.Dir) {
		return
	}
	base := filepath.Dir(configDir)
	if strings.HasPrefix(c.Dir, "..") {
		base = configDir
	}
	c.Dir = filepath.Clean(filepath.Join(base, c.Dir))
}

func (c *LoggingConfig) Validate() error {
	if err := checkLevelFormat("logging", c.Level, c.Format); err != nil {
		return err
	}
	if c.Dir == "" {
		return fmt.Errorf("logging.dir must not be empty")
	}
	if c.Console.On() {
		if err := checkLevelFormat("logging.console", c.Console.Level, c.Console.Format); err != nil {
			return err
		}
	}
	if c.File.On() {
		if err := checkLevelFormat("logging.file", c.File.Level, c.File.Format); err != nil {
			return err
		}
	}
	return nil
}

// checkLevelFormat accepts empty values, which inherit from the parent.
func checkLevelFormat(prefix, level, format string) error {
	if level != "" && !slices.Contains(logLevels, level) {
		return fmt.Errorf("%s.level %q must be one of %v", prefix, level, logLevels)
	}
	if format != "" && !slices.Contains(logFormats, format) {
		return fmt.Errorf("%s.format %q must be one of %v", prefix, format, logFormats)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
