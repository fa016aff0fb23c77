// Package config provides centralized timeout constants for the application.
//
// The dialogue host calls the action server synchronously once per turn and
// waits for the reply before answering the user. Action calls are bounded by
// the host's own action-call timeout unless GSB_ACTION_TIMEOUT is set.
package config

import "time"

// Action server timeouts
const (
	// ActionHTTPRead is the HTTP server read timeout.
	// Tracker payloads are small JSON documents.
	ActionHTTPRead = 10 * time.Second

	// ActionWriteSlack is added to a configured action timeout to get the
	// HTTP server write timeout, leaving room for response serialization.
	ActionWriteSlack = 5 * time.Second

	// ActionHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	ActionHTTPIdle = 120 * time.Second
)

// Order system
const (
	// OrderDedupWindow is how long a successful submission is replayed
	// instead of re-sent when the host repeats the same action call.
	// Replay is also keyed on the form run, so a new filling of the form
	// is always a new order.
	OrderDedupWindow = 2 * time.Minute

	// OrderDedupCacheSize bounds the number of remembered submissions.
	OrderDedupCacheSize = 1024
)

// Background job intervals
const (
	// RateLimiterCleanupInterval is how often idle per-sender limiters are dropped.
	RateLimiterCleanupInterval = 5 * time.Minute

	// MetricsUpdateInterval is how often sampled gauges are refreshed.
	MetricsUpdateInterval = 30 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight action calls to complete before forceful termination.
	GracefulShutdown = 30 * time.Second

	// SentryFlush bounds how long shutdown waits for buffered Sentry events.
	SentryFlush = 2 * time.Second
)
