// Package logger provides structured logging utilities for the application.
// It wraps log/slog with JSON formatting, lifts conversation tracing values
// out of the context, and can ship records to Better Stack in the background.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	slogbetterstack "github.com/samber/slog-betterstack"
	slogformatter "github.com/samber/slog-formatter"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console" // colored, human-readable; for local runs
)

// Logger is the application logger
type Logger struct {
	*slog.Logger
	level  *slog.LevelVar
	remote *QueueHandler // nil unless remote shipping is enabled
}

// Options configures optional log sinks.
type Options struct {
	// BetterStackToken enables shipping to Better Stack when non-empty.
	BetterStackToken string
	// BetterStackEndpoint overrides the ingesting host (optional).
	BetterStackEndpoint string
	// Queue tunes the background shipping queue.
	Queue QueueOptions
	// Format selects the local output format. Empty means FormatJSON.
	Format string
}

// New creates a new logger instance with JSON formatting
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a new logger instance with JSON formatting writing to the provided writer
func NewWithWriter(level string, w io.Writer) *Logger {
	return NewWithOptions(level, w, Options{})
}

// NewWithOptions creates a logger writing JSON to w and, when configured,
// forwarding the same records to Better Stack without blocking callers.
func NewWithOptions(level string, w io.Writer, opts Options) *Logger {
	lv := &slog.LevelVar{}
	lv.Set(parseLevel(level))

	var handler slog.Handler
	if opts.Format == FormatConsole {
		handler = consoleHandler(w, lv)
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       lv,
			ReplaceAttr: replaceAttr,
		})
	}

	var remote *QueueHandler
	if opts.BetterStackToken != "" {
		bs := slogbetterstack.Option{
			Level:    lv,
			Token:    opts.BetterStackToken,
			Endpoint: opts.BetterStackEndpoint,
		}.NewBetterstackHandler()
		remote = NewQueueHandler(bs, opts.Queue)
		handler = NewFanoutHandler(handler, remote)
	}

	return &Logger{
		Logger: slog.New(NewContextHandler(handler)),
		level:  lv,
		remote: remote,
	}
}

// consoleHandler renders records for a terminal. Colors are only used when
// w is a terminal; errors are expanded with their type.
func consoleHandler(w io.Writer, lv slog.Leveler) slog.Handler {
	colorize := false
	if f, ok := w.(*os.File); ok {
		colorize = isatty.IsTerminal(f.Fd())
	}
	return slogformatter.NewFormatterHandler(
		slogformatter.ErrorFormatter("error"),
	)(
		tint.NewHandler(w, &tint.Options{
			Level:      lv,
			TimeFormat: time.StampMilli,
			NoColor:    !colorize,
		}),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.LevelKey:
		a.Key = "level"
		level := a.Value.String()
		if level == "WARN" {
			level = "warning"
		} else {
			level = strings.ToLower(level)
		}
		a.Value = slog.StringValue(level)
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// Level returns the current minimum level.
func (l *Logger) Level() slog.Level {
	if l.level == nil {
		return slog.LevelInfo
	}
	return l.level.Level()
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	if l.level != nil {
		l.level.Set(parseLevel(level))
	}
	return nil
}

func (l *Logger) derive(s *slog.Logger) *Logger {
	return &Logger{Logger: s, level: l.level, remote: l.remote}
}

// WithModule creates a new entry with module field
func (l *Logger) WithModule(module string) *Logger {
	return l.derive(l.With("module", module))
}

// WithRequestID creates a new entry with request ID field
func (l *Logger) WithRequestID(requestID string) *Logger {
	return l.derive(l.With("request_id", requestID))
}

// WithError creates a new entry with error field
func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.With("error", err))
}

// WithField creates a new entry with a single field
func (l *Logger) WithField(key string, value any) *Logger {
	return l.derive(l.With(key, value))
}

// WithFields creates a new entry with multiple fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return l.derive(l.With(args...))
}

// Shutdown drains the remote shipping queue, if any.
func (l *Logger) Shutdown(ctx context.Context) error {
	if l == nil || l.remote == nil {
		return nil
	}
	return l.remote.Close(ctx)
}
