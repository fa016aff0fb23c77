package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestSenderIDContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		if senderID := GetSenderID(context.Background()); senderID != "" {
			t.Errorf("Expected empty string, got %s", senderID)
		}
	})

	t.Run("with sender ID", func(t *testing.T) {
		t.Parallel()
		ctx := WithSenderID(context.Background(), "conv-123")
		if got := GetSenderID(ctx); got != "conv-123" {
			t.Errorf("Expected senderID conv-123, got %s", got)
		}
		if got := MustGetSenderID(ctx); got != "conv-123" {
			t.Errorf("Expected senderID conv-123, got %s", got)
		}
	})
}

func TestMustGetSenderID_Panic(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected MustGetSenderID to panic on empty context")
		}
	}()
	MustGetSenderID(context.Background())
}

func TestActionContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if got := GetAction(ctx); got != "" {
		t.Errorf("Expected empty action, got %s", got)
	}
	ctx = WithAction(ctx, "validate_order_form")
	if got := GetAction(ctx); got != "validate_order_form" {
		t.Errorf("Expected validate_order_form, got %s", got)
	}
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	if _, ok := GetRequestID(context.Background()); ok {
		t.Error("Expected no request ID in empty context")
	}
	ctx := WithRequestID(context.Background(), "req-1")
	if got, ok := GetRequestID(ctx); !ok || got != "req-1" {
		t.Errorf("Expected req-1, got %q (ok=%v)", got, ok)
	}
}

func TestPreserveTracing(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	parent = WithSenderID(parent, "conv-1")
	parent = WithAction(parent, "action_submit_order_to_api")
	parent = WithRequestID(parent, "req-9")
	cancel()

	detached := PreserveTracing(parent)

	if detached.Err() != nil {
		t.Errorf("Detached context should not be canceled, got %v", detached.Err())
	}
	if _, ok := detached.Deadline(); ok {
		t.Error("Detached context should not carry a deadline")
	}
	if got := GetSenderID(detached); got != "conv-1" {
		t.Errorf("senderID = %q, want conv-1", got)
	}
	if got := GetAction(detached); got != "action_submit_order_to_api" {
		t.Errorf("action = %q, want action_submit_order_to_api", got)
	}
	if got, _ := GetRequestID(detached); got != "req-9" {
		t.Errorf("requestID = %q, want req-9", got)
	}
}
