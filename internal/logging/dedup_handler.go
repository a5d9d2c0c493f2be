// internal/logging/dedup_handler.go
package logging

import (
	"context"
	"encoding/binary"
	"log/slog"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// maxDedupEntries bounds the number of tracked keys; expired keys are
// pruned once it is reached.
const maxDedupEntries = 4096

// DedupHandler suppresses repeats of identical records at or above a
// minimum level within a time window. The first record in a window is
// passed through; the first one after the window closes carries a
// suppressed_count attribute with the number of dropped repeats.
//
// A dangling attachment reference produces the same warning on every
// request for that sighting, which is what this is meant to absorb.
type DedupHandler struct {
	next  slog.Handler
	state *dedupState
	// scope is the hashed WithAttrs/WithGroup chain, so that identical
	// messages from different components are tracked separately.
	scope uint64
}

type dedupState struct {
	mu       sync.Mutex
	seen     map[uint64]*dedupEntry
	window   time.Duration
	minLevel slog.Level
	now      func() time.Time
}

type dedupEntry struct {
	first      time.Time
	suppressed int
}

// NewDedupHandler wraps next, deduplicating records at minLevel and above.
func NewDedupHandler(next slog.Handler, window time.Duration, minLevel slog.Level) *DedupHandler {
	return &DedupHandler{
		next: next,
		state: &dedupState{
			seen:     make(map[uint64]*dedupEntry),
			window:   window,
			minLevel: minLevel,
			now:      time.Now,
		},
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *DedupHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle passes the record on unless it repeats one seen within the window.
func (h *DedupHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < h.state.minLevel {
		return h.next.Handle(ctx, r)
	}

	key := h.hashRecord(r)
	suppressed, drop := h.state.observe(key)
	if drop {
		return nil
	}
	if suppressed > 0 {
		r = r.Clone()
		r.AddAttrs(slog.Int("suppressed_count", suppressed))
	}
	return h.next.Handle(ctx, r)
}

func (s *dedupState) observe(key uint64) (suppressed int, drop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.seen[key]; ok {
		if now.Sub(entry.first) < s.window {
			entry.suppressed++
			return 0, true
		}
		suppressed = entry.suppressed
	}

	if len(s.seen) >= maxDedupEntries {
		s.prune(now)
	}
	s.seen[key] = &dedupEntry{first: now}
	return suppressed, false
}

// prune drops expired entries. Must be called with s.mu held.
func (s *dedupState) prune(now time.Time) {
	for key, entry := range s.seen {
		if now.Sub(entry.first) >= s.window {
			delete(s.seen, key)
		}
	}
}

// hashRecord hashes level, message and attributes; the timestamp is left out.
func (h *DedupHandler) hashRecord(r slog.Record) uint64 {
	d := h.digest()
	_, _ = d.WriteString(r.Level.String())
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(r.Message)
	r.Attrs(func(a slog.Attr) bool {
		_, _ = d.WriteString("|")
		_, _ = d.WriteString(a.Key)
		_, _ = d.WriteString("=")
		_, _ = d.WriteString(a.Value.String())
		return true
	})
	return d.Sum64()
}

// digest returns a hash seeded with the handler scope.
func (h *DedupHandler) digest() *xxhash.Digest {
	d := xxhash.New()
	var scope [8]byte
	binary.LittleEndian.PutUint64(scope[:], h.scope)
	_, _ = d.Write(scope[:])
	return d
}

func (h *DedupHandler) derive(next slog.Handler, part string) *DedupHandler {
	d := h.digest()
	_, _ = d.WriteString(part)
	return &DedupHandler{next: next, state: h.state, scope: d.Sum64()}
}

// WithAttrs returns a handler sharing this handler's dedup state.
func (h *DedupHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	part := ""
	for _, a := range attrs {
		part += a.Key + "=" + a.Value.String() + ";"
	}
	return h.derive(h.next.WithAttrs(attrs), part)
}

// WithGroup returns a handler sharing this handler's dedup state.
func (h *DedupHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return h.derive(h.next.WithGroup(name), "group:"+name)
}
