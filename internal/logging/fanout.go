package logging

import (
	"context"
	"errors"
	"log/slog"
)

// FanoutHandler sends each record to every sink that accepts its level.
// A failing sink does not stop delivery to the others; all sink errors
// are joined and returned.
type FanoutHandler struct {
	sinks []slog.Handler
}

// NewFanoutHandler creates a handler writing to all sinks.
func NewFanoutHandler(sinks ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{sinks: sinks}
}

func (h *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		// Each sink gets its own copy so attrs added downstream do not leak.
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &FanoutHandler{sinks: h.mapSinks(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })}
}

func (h *FanoutHandler) WithGroup(name string) slog.Handler {
	return &FanoutHandler{sinks: h.mapSinks(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })}
}

func (h *FanoutHandler) mapSinks(fn func(slog.Handler) slog.Handler) []slog.Handler {
	out := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		out[i] = fn(s)
	}
	return out
}

// LevelFilter drops records below a minimum level before they reach the
// wrapped handler. The minimum is read on every call, so a *slog.LevelVar
// can raise or lower it at runtime.
type LevelFilter struct {
	next slog.Handler
	min  slog.Leveler
}

// NewLevelFilter wraps next with a minimum level.
func NewLevelFilter(next slog.Handler, min slog.Leveler) *LevelFilter {
	return &LevelFilter{next: next, min: min}
}

func (h *LevelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.min.Level() && h.next.Enabled(ctx, level)
}

func (h *LevelFilter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.min.Level() {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *LevelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelFilter{next: h.next.WithAttrs(attrs), min: h.min}
}

func (h *LevelFilter) WithGroup(name string) slog.Handler {
	return &LevelFilter{next: h.next.WithGroup(name), min: h.min}
}
