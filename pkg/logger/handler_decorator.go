package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor returns an attribute found in ctx, such as the request ID
// or the environment, and whether one was found.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// contextHandler adds the attributes of its extractors to every record,
// reading them from the context passed at log time.
type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

// NewLogHandlerDecorator wraps next with extractors. Nil extractors are
// dropped and next is returned unchanged when none remain.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	var kept []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &contextHandler{Handler: next, extractors: kept}
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.Handler.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
