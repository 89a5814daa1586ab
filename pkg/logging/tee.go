package logging

import (
	"context"
	"log/slog"
)

// teeHandler fans records out to a primary handler and a tee. Each side keeps
// its own level, so a debug log file can sit next to a quiet terminal.
type teeHandler struct {
	primary slog.Handler
	tee     slog.Handler
}

func (h teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.tee.Enabled(ctx, level)
}

func (h teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var primaryErr error
	if h.primary.Enabled(ctx, r.Level) {
		primaryErr = h.primary.Handle(ctx, r.Clone())
	}
	if h.tee.Enabled(ctx, r.Level) {
		// A broken log file never hides records from the terminal.
		_ = h.tee.Handle(ctx, r)
	}
	return primaryErr
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{primary: h.primary.WithAttrs(attrs), tee: h.tee.WithAttrs(attrs)}
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{primary: h.primary.WithGroup(name), tee: h.tee.WithGroup(name)}
}
