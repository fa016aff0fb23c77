// Package config provides application configuration management.
// It loads settings from environment variables (optionally seeded from a
// .env file) and provides defaults for the action server, the order system
// client and the ambient integrations.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default order system locations.
const (
	DefaultOrderEndpointURL = "https://dev.gangsheet-builders.com/api/rasa-order"
	DefaultUploadBaseURL    = "https://dev.gangsheet-builders.com/upload-order-file"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	LogFormat       string // "json" or "console"
	ShutdownTimeout time.Duration
	ServerName      string

	// Action Server Configuration
	ActionTimeout time.Duration // Budget for one action call; 0 = the host's timeout governs
	ActionToken   string        // Shared token expected in the "token" query param (empty = no check)

	// Order System Configuration
	OrderEndpointURL string
	UploadBaseURL    string
	OrderTimeout     time.Duration // 0 = no client-side timeout, the action call context governs
	OrderAPIToken    string        // Bearer token for the order API (optional)
	DedupWindow      time.Duration
	DedupCacheSize   int

	// Catalog
	CatalogFile string // YAML catalog; empty = built-in catalog

	// Rate Limits (Token Bucket Algorithm, per conversation)
	SenderRateBurst  float64
	SenderRateRefill float64 // Tokens per second

	// Metrics Authentication
	MetricsUsername string
	MetricsPassword string // Empty = no auth

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables.
// It attempts to load .env file first, then reads from env vars.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "5055"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		LogFormat:       getEnv(EnvLogFormat, "json"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		ServerName:      getEnv(EnvServerName, "gangsheet-order-actions"),

		ActionTimeout: getDurationEnv(EnvActionTimeout, 0),
		ActionToken:   getEnv(EnvActionToken, ""),

		OrderEndpointURL: getEnv(EnvOrderEndpointURL, DefaultOrderEndpointURL),
		UploadBaseURL:    getEnv(EnvUploadBaseURL, DefaultUploadBaseURL),
		OrderTimeout:     getDurationEnv(EnvOrderTimeout, 0),
		OrderAPIToken:    getEnv(EnvOrderAPIToken, ""),
		DedupWindow:      getDurationEnv(EnvDedupWindow, OrderDedupWindow),
		DedupCacheSize:   getIntEnv(EnvDedupCacheSize, OrderDedupCacheSize),

		CatalogFile: getEnv(EnvCatalogFile, ""),

		SenderRateBurst:  getFloatEnv(EnvSenderRateBurst, 20.0),
		SenderRateRefill: getFloatEnv(EnvSenderRateRefill, 0.5), // 1 per 2s

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	switch c.LogFormat {
	case "", "json", "console":
	default:
		errs = append(errs, fmt.Errorf("%s must be json or console, got %q", EnvLogFormat, c.LogFormat))
	}
	if c.ActionTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvActionTimeout, c.ActionTimeout))
	}
	if err := validateHTTPURL(c.OrderEndpointURL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvOrderEndpointURL, err))
	}
	if err := validateHTTPURL(c.UploadBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", EnvUploadBaseURL, err))
	}
	if c.OrderTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvOrderTimeout, c.OrderTimeout))
	}
	if c.DedupWindow < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvDedupWindow, c.DedupWindow))
	}
	if c.DedupCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvDedupCacheSize, c.DedupCacheSize))
	}
	if c.SenderRateBurst <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSenderRateBurst, c.SenderRateBurst))
	}
	if c.SenderRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSenderRateRefill, c.SenderRateRefill))
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// WriteTimeout is the HTTP server write timeout. Without an action timeout
// there is none, so a slow order call is never cut off mid-reply.
func (c *Config) WriteTimeout() time.Duration {
	if c.ActionTimeout <= 0 {
		return 0
	}
	return c.ActionTimeout + ActionWriteSlack
}

// MetricsAuthEnabled reports whether /metrics requires Basic Auth.
func (c *Config) MetricsAuthEnabled() bool {
	return c.MetricsPassword != ""
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
