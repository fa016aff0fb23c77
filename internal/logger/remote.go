package logger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueSize    = 1024
	defaultDrainTimeout = 5 * time.Second
)

// FanoutHandler sends each record to every enabled handler.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler creates a FanoutHandler, skipping nil handlers.
func NewFanoutHandler(handlers ...slog.Handler) *FanoutHandler {
	out := make([]slog.Handler, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return &FanoutHandler{handlers: out}
}

// Enabled reports whether any handler wants the level.
func (f *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle clones the record per handler; handler errors are joined.
func (f *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies attrs to every handler.
func (f *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

// WithGroup applies the group to every handler.
func (f *FanoutHandler) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *FanoutHandler) each(fn func(slog.Handler) slog.Handler) *FanoutHandler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = fn(h)
	}
	return &FanoutHandler{handlers: next}
}

// QueueOptions tunes a QueueHandler.
type QueueOptions struct {
	Size         int           // Buffered records before new ones are dropped
	DrainTimeout time.Duration // Close budget when ctx has no deadline
}

type queuedRecord struct {
	ctx     context.Context
	record  slog.Record
	handler slog.Handler
}

// queue is shared by every QueueHandler derived through WithAttrs/WithGroup.
type queue struct {
	mu           sync.RWMutex // guards sends against close(ch)
	ch           chan queuedRecord
	drainTimeout time.Duration
	closed       bool
	dropped      atomic.Uint64
	done         sync.WaitGroup
}

// QueueHandler hands records to a single background goroutine so a slow
// remote sink never blocks an action call. When the queue is full the
// record is dropped and counted.
type QueueHandler struct {
	q       *queue
	handler slog.Handler
}

// NewQueueHandler starts the background worker for handler.
func NewQueueHandler(handler slog.Handler, opts QueueOptions) *QueueHandler {
	size := opts.Size
	if size <= 0 {
		size = defaultQueueSize
	}
	drain := opts.DrainTimeout
	if drain <= 0 {
		drain = defaultDrainTimeout
	}

	q := &queue{ch: make(chan queuedRecord, size), drainTimeout: drain}
	q.done.Go(func() {
		for rec := range q.ch {
			_ = rec.handler.Handle(rec.ctx, rec.record)
		}
	})
	return &QueueHandler{q: q, handler: handler}
}

// Enabled delegates to the wrapped handler.
func (h *QueueHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle enqueues the record without blocking.
func (h *QueueHandler) Handle(ctx context.Context, r slog.Record) error {
	// Detach so a finished request does not leak into the worker.
	rec := queuedRecord{ctx: context.WithoutCancel(ctx), record: r.Clone(), handler: h.handler}

	h.q.mu.RLock()
	defer h.q.mu.RUnlock()
	if h.q.closed {
		return nil
	}
	select {
	case h.q.ch <- rec:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

// WithAttrs returns a handler sharing the same queue.
func (h *QueueHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &QueueHandler{q: h.q, handler: h.handler.WithAttrs(attrs)}
}

// WithGroup returns a handler sharing the same queue.
func (h *QueueHandler) WithGroup(name string) slog.Handler {
	return &QueueHandler{q: h.q, handler: h.handler.WithGroup(name)}
}

// Dropped reports how many records were discarded because the queue was full.
func (h *QueueHandler) Dropped() uint64 {
	return h.q.dropped.Load()
}

// Close stops accepting records and waits for the queue to drain.
// Safe to call more than once.
func (h *QueueHandler) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	h.q.mu.Lock()
	if h.q.closed {
		h.q.mu.Unlock()
		return nil
	}
	h.q.closed = true
	close(h.q.ch)
	h.q.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.q.drainTimeout)
		defer cancel()
	}

	drained := make(chan struct{})
	go func() {
		h.q.done.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
