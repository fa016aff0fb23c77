// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	senderIDKey  contextKey = "ctxutil.senderID"
	actionKey    contextKey = "ctxutil.action"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithSenderID adds a conversation sender ID to the context.
// The sender ID comes from the host tracker and keys rate limiting
// and order idempotency.
func WithSenderID(ctx context.Context, senderID string) context.Context {
	return context.WithValue(ctx, senderIDKey, senderID)
}

// GetSenderID retrieves the sender ID from the context.
// Returns the sender ID if found, empty string otherwise.
func GetSenderID(ctx context.Context) string {
	if v := ctx.Value(senderIDKey); v != nil {
		if senderID, ok := v.(string); ok && senderID != "" {
			return senderID
		}
	}
	return ""
}

// MustGetSenderID retrieves the sender ID from the context.
// Panics if the sender ID is not found.
func MustGetSenderID(ctx context.Context) string {
	senderID, ok := ctx.Value(senderIDKey).(string)
	if !ok || senderID == "" {
		panic("ctxutil: senderID not found")
	}
	return senderID
}

// WithAction adds the name of the action being executed to the context.
func WithAction(ctx context.Context, action string) context.Context {
	return context.WithValue(ctx, actionKey, action)
}

// GetAction retrieves the action name from the context.
func GetAction(ctx context.Context) string {
	if v := ctx.Value(actionKey); v != nil {
		if action, ok := v.(string); ok && action != "" {
			return action
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context for tracing.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// PreserveTracing creates a detached context that preserves tracing values.
// The new context is independent of the parent's cancellation and deadlines.
//
// Used for order submission: the order API call must not be abandoned
// halfway because the host dropped its connection to us.
func PreserveTracing(ctx context.Context) context.Context {
	newCtx := context.Background()

	if senderID := GetSenderID(ctx); senderID != "" {
		newCtx = WithSenderID(newCtx, senderID)
	}
	if action := GetAction(ctx); action != "" {
		newCtx = WithAction(newCtx, action)
	}
	if requestID, ok := GetRequestID(ctx); ok && requestID != "" {
		newCtx = WithRequestID(newCtx, requestID)
	}

	return newCtx
}
