// Package logging builds the process logger from config.LoggingConfig.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/syntrixbase/ufoatlas/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	mainLogFile  = "ufoatlas.log"
	errorLogFile = "errors.log"
)

var (
	openFiles   []io.Closer
	openFilesMu sync.Mutex
)

// Initialize builds a logger from cfg and installs it as the slog default.
func Initialize(cfg config.LoggingConfig) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)

	slog.Info("Logging initialized",
		"level", cfg.Level,
		"format", cfg.Format,
		"dir", cfg.Dir,
		"console", cfg.Console.On(),
		"file", cfg.File.On(),
		"dedup_window", cfg.DedupWindow,
	)
	return nil
}

// NewLogger assembles the configured sinks: stdout, the main rotating log
// (all levels) and the rotating error log (warn and above). Repeated
// warnings are collapsed when DedupWindow is positive.
func NewLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var sinks []slog.Handler

	if cfg.Console.On() {
		sinks = append(sinks, newHandler(os.Stdout, cfg.Console.Format, parseLevel(cfg.Console.Level)))
	}

	if cfg.File.On() {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		main := openRotating(filepath.Join(cfg.Dir, mainLogFile), cfg.Rotation)
		sinks = append(sinks, newHandler(main, cfg.File.Format, parseLevel(cfg.File.Level)))

		errs := openRotating(filepath.Join(cfg.Dir, errorLogFile), cfg.Rotation)
		sinks = append(sinks, NewLevelFilter(newHandler(errs, cfg.File.Format, slog.LevelWarn), slog.LevelWarn))
	}

	var handler slog.Handler
	switch len(sinks) {
	case 0:
		handler = slog.NewTextHandler(io.Discard, nil)
	case 1:
		handler = sinks[0]
	default:
		handler = NewFanoutHandler(sinks...)
	}

	if cfg.DedupWindow > 0 {
		handler = NewDedupHandler(handler, cfg.DedupWindow, slog.LevelWarn)
	}
	return slog.New(handler), nil
}

// Shutdown closes every log file opened by NewLogger.
func Shutdown() error {
	openFilesMu.Lock()
	defer openFilesMu.Unlock()

	var errs []error
	for _, f := range openFiles {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	openFiles = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to close log files: %w", err)
	}
	return nil
}

func openRotating(path string, rot config.RotationConfig) *lumberjack.Logger {
	l := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
		MaxAge:     rot.MaxAgeDays,
		Compress:   rot.CompressRotated(),
	}
	openFilesMu.Lock()
	openFiles = append(openFiles, l)
	openFilesMu.Unlock()
	return l
}

// parseLevel maps a config level name to slog. Unknown names mean info.
func parseLevel(name string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
