package logging

import (
	"context"
	"log/slog"
)

// Fanout is an slog.Handler that forwards every record to a fixed set of
// underlying handlers (e.g. a colored stdout handler plus a plain file
// handler), the role Setup needs whenever more than one sink is
// configured.
type Fanout struct {
	handlers []slog.Handler
}

// NewFanout builds a Fanout over handlers. Panics if called with none,
// since a zero-handler fanout is always a caller mistake (Setup only
// ever constructs one when len(handlers) > 1).
func NewFanout(handlers ...slog.Handler) *Fanout {
	if len(handlers) == 0 {
		panic("logging: NewFanout requires at least one handler")
	}
	return &Fanout{handlers: handlers}
}

func (f *Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *Fanout) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &Fanout{handlers: next}
}

func (f *Fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &Fanout{handlers: next}
}
