package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gangsheet-builders/order-actions/internal/ctxutil"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"uppercase", "DEBUG", slog.LevelDebug},
		{"invalid defaults to info", "invalid", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.level)
			if got := log.Level(); got != tt.want {
				t.Errorf("New(%q).Level() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("test message")

	entry := decodeLine(t, &buf)
	for _, field := range []string{"timestamp", "level", "message"} {
		if _, ok := entry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}
	if entry["message"] != "test message" {
		t.Errorf("message = %v, want %q", entry["message"], "test message")
	}
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want %q", entry["level"], "warning")
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("order").
		WithRequestID("req-123").
		WithError(errors.New("boom")).
		WithFields(map[string]any{"order_id": "42"}).
		Info("submitted")

	entry := decodeLine(t, &buf)
	want := map[string]string{
		"module":     "order",
		"request_id": "req-123",
		"error":      "boom",
		"order_id":   "42",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestLogger_ContextValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithSenderID(context.Background(), "conv-77")
	ctx = ctxutil.WithAction(ctx, "validate_order_form")
	ctx = ctxutil.WithRequestID(ctx, "req-abc")

	log.InfoContext(ctx, "validated")

	entry := decodeLine(t, &buf)
	if entry["sender_id"] != "conv-77" {
		t.Errorf("sender_id = %v, want conv-77", entry["sender_id"])
	}
	if entry["action"] != "validate_order_form" {
		t.Errorf("action = %v, want validate_order_form", entry["action"])
	}
	if entry["request_id"] != "req-abc" {
		t.Errorf("request_id = %v, want req-abc", entry["request_id"])
	}
}

func TestLogger_ContextValuesAbsent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.InfoContext(context.Background(), "no tracing")

	entry := decodeLine(t, &buf)
	for _, k := range []string{"sender_id", "action", "request_id"} {
		if _, ok := entry[k]; ok {
			t.Errorf("unexpected %s in log entry", k)
		}
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %s", buf.String())
	}

	if err := log.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug) error = %v", err)
	}
	// Derived loggers share the level.
	log.WithModule("x").Debug("shown")
	if buf.Len() == 0 {
		t.Error("debug record not written after SetLevel(debug)")
	}

	if err := log.SetLevel("verbose"); err == nil {
		t.Error("SetLevel(verbose) error = nil, want error")
	}
}

func TestLogger_ShutdownWithoutRemote(t *testing.T) {
	log := New("info")
	if err := log.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions("info", &buf, Options{Format: FormatConsole})

	ctx := ctxutil.WithSenderID(context.Background(), "conv-1")
	log.WithError(errors.New("boom")).WarnContext(ctx, "Console line")
	log.Debug("hidden")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("console output looks like JSON: %q", out)
	}
	for _, want := range []string{"Console line", "boom", "sender_id=conv-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %q", out)
	}
	if strings.Contains(out, "\x1b[") || strings.Contains(out, "\033[") {
		t.Errorf("colors used for a non-terminal writer: %q", out)
	}
}
