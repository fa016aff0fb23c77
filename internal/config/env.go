// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Server
	EnvPort            = "GSB_PORT"
	EnvLogLevel        = "GSB_LOG_LEVEL"
	EnvLogFormat       = "GSB_LOG_FORMAT"
	EnvShutdownTimeout = "GSB_SHUTDOWN_TIMEOUT"
	EnvServerName      = "GSB_SERVER_NAME"

	// Action server
	EnvActionTimeout = "GSB_ACTION_TIMEOUT"
	EnvActionToken   = "GSB_ACTION_TOKEN"

	// Order system
	EnvOrderEndpointURL = "GSB_ORDER_ENDPOINT_URL"
	EnvUploadBaseURL    = "GSB_UPLOAD_BASE_URL"
	EnvOrderTimeout     = "GSB_ORDER_TIMEOUT"
	EnvOrderAPIToken    = "GSB_ORDER_API_TOKEN"
	EnvDedupWindow      = "GSB_ORDER_DEDUP_WINDOW"
	EnvDedupCacheSize   = "GSB_ORDER_DEDUP_CACHE_SIZE"

	// Catalog
	EnvCatalogFile = "GSB_CATALOG_FILE"

	// Rate Limits
	EnvSenderRateBurst  = "GSB_SENDER_RATE_BURST"
	EnvSenderRateRefill = "GSB_SENDER_RATE_REFILL"

	// Metrics
	EnvMetricsUsername = "GSB_METRICS_USERNAME"
	EnvMetricsPassword = "GSB_METRICS_PASSWORD"

	// Sentry Feature
	EnvSentryDSN         = "GSB_SENTRY_DSN"
	EnvSentryEnvironment = "GSB_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "GSB_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "GSB_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "GSB_BETTERSTACK_ENDPOINT"
)
