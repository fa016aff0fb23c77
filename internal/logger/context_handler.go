package logger

import (
	"context"
	"log/slog"

	"github.com/gangsheet-builders/order-actions/internal/ctxutil"
)

// ContextHandler is a slog.Handler decorator that copies tracing values
// (sender_id, action, request_id) from the context onto every record, so
// call sites only need to pass ctx to the *Context logging methods.
type ContextHandler struct {
	handler slog.Handler
}

// NewContextHandler creates a new ContextHandler that wraps the provided handler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle adds context values to the record before delegating.
// Canceling ctx does not affect record processing (per slog.Handler contract).
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if senderID := ctxutil.GetSenderID(ctx); senderID != "" {
			r.AddAttrs(slog.String("sender_id", senderID))
		}
		if action := ctxutil.GetAction(ctx); action != "" {
			r.AddAttrs(slog.String("action", action))
		}
		if requestID, ok := ctxutil.GetRequestID(ctx); ok && requestID != "" {
			r.AddAttrs(slog.String("request_id", requestID))
		}
	}
	return h.handler.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler wrapping the handler with attrs applied.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a new ContextHandler wrapping the handler with the group applied.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}
