package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		checkFn  func(error) bool
		expected bool
	}{
		{
			name:     "ErrInvalidInput is recognized",
			err:      ErrInvalidInput,
			checkFn:  IsInvalidInput,
			expected: true,
		},
		{
			name:     "Wrapped ErrInvalidInput is recognized",
			err:      fmt.Errorf("decode body: %w", ErrInvalidInput),
			checkFn:  IsInvalidInput,
			expected: true,
		},
		{
			name:     "ErrUnknownAction is recognized",
			err:      fmt.Errorf("%w: action_foo", ErrUnknownAction),
			checkFn:  IsUnknownAction,
			expected: true,
		},
		{
			name:     "Joined ErrConnection is recognized",
			err:      errors.Join(ErrConnection, errors.New("dial tcp: refused")),
			checkFn:  IsConnection,
			expected: true,
		},
		{
			name:     "Different error is not ErrConnection",
			err:      ErrRateLimitExceeded,
			checkFn:  IsConnection,
			expected: false,
		},
		{
			name:     "Wrapped ErrTimeout",
			err:      fmt.Errorf("order call: %w", ErrTimeout),
			checkFn:  IsTimeout,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checkFn(tt.err); got != tt.expected {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("quantity", "must be positive")
	want := "validation failed on quantity: must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestHTTPStatusError(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewHTTPStatusError("http://orders/api", 422, "bad size"))

	code, ok := StatusCode(err)
	if !ok || code != 422 {
		t.Errorf("StatusCode() = %d, %v; want 422, true", code, ok)
	}

	if _, ok := StatusCode(errors.New("plain")); ok {
		t.Error("StatusCode() should not match a plain error")
	}

	bare := NewHTTPStatusError("http://orders/api", 500, "")
	if got := bare.Error(); got != "order API error (url=http://orders/api, status=500)" {
		t.Errorf("Error() = %q", got)
	}
}
