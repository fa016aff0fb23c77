// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrInvalidInput indicates the host sent a malformed action call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownAction indicates the host asked for an action that is not registered.
	ErrUnknownAction = errors.New("unknown action")

	// ErrRateLimitExceeded indicates rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// ErrConnection indicates the order system could not be reached at all.
	ErrConnection = errors.New("order system unreachable")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")
)

// IsInvalidInput reports whether err is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnknownAction reports whether err is or wraps ErrUnknownAction.
func IsUnknownAction(err error) bool {
	return errors.Is(err, ErrUnknownAction)
}

// IsConnection reports whether err is or wraps ErrConnection.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsTimeout reports whether err is or wraps ErrTimeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// ValidationError represents a rejected slot value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// HTTPStatusError is returned when the order system answers with a non-2xx status.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("order API error (url=%s, status=%d): %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("order API error (url=%s, status=%d)", e.URL, e.StatusCode)
}

// NewHTTPStatusError creates a new HTTP status error.
func NewHTTPStatusError(url string, statusCode int, body string) *HTTPStatusError {
	return &HTTPStatusError{
		URL:        url,
		StatusCode: statusCode,
		Body:       body,
	}
}

// StatusCode extracts the HTTP status from err if it wraps an HTTPStatusError.
func StatusCode(err error) (int, bool) {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}
