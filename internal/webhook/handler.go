// Package webhook serves the action endpoint the dialogue host calls for
// every custom action.
package webhook

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gangsheet-builders/order-actions/internal/action"
	"github.com/gangsheet-builders/order-actions/internal/ctxutil"
	"github.com/gangsheet-builders/order-actions/internal/errors"
	"github.com/gangsheet-builders/order-actions/internal/logger"
	"github.com/gangsheet-builders/order-actions/internal/metrics"
	"github.com/gangsheet-builders/order-actions/internal/ratelimit"
)

// MsgSlowDown is sent instead of running the action when a conversation
// calls too often.
const MsgSlowDown = "You're sending messages a little too fast. Please wait a moment and try again."

// DefaultMaxBodyBytes bounds an action call body. Trackers carry the whole
// event history, so this is generous.
const DefaultMaxBodyBytes = 4 << 20

// RequestIDHeader carries a caller-supplied request id.
const RequestIDHeader = "X-Request-ID"

// Handler serves action calls.
type Handler struct {
	registry      *action.Registry
	metrics       *metrics.Metrics
	logger        *logger.Logger
	limiter       *ratelimit.KeyedLimiter
	actionTimeout time.Duration
	token         string
	maxBodyBytes  int64
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	Registry *action.Registry
	Metrics  *metrics.Metrics
	Logger   *logger.Logger

	// SenderLimiter throttles each conversation. Nil disables throttling.
	SenderLimiter *ratelimit.KeyedLimiter

	// ActionTimeout bounds one action call. Zero means no bound.
	ActionTimeout time.Duration

	// Token, when set, must match the "token" query parameter.
	Token string

	MaxBodyBytes int64
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) *Handler {
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Handler{
		registry:      cfg.Registry,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger.WithModule("webhook"),
		limiter:       cfg.SenderLimiter,
		actionTimeout: cfg.ActionTimeout,
		token:         cfg.Token,
		maxBodyBytes:  maxBody,
	}
}

// Handle is the Gin handler for POST /webhook.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()

	if !h.authorized(c) {
		h.logger.Warn("Rejected action call with invalid token")
		c.JSON(http.StatusUnauthorized, action.ErrorResponse{Error: "invalid token"})
		return
	}

	req, err := h.decode(c)
	switch {
	case errors.IsInvalidInput(err):
		h.logger.WithError(err).Warn("Malformed action call")
		c.JSON(http.StatusBadRequest, action.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		h.logger.WithError(err).Error("Failed to read action call")
		c.JSON(http.StatusInternalServerError, action.ErrorResponse{Error: "could not read action call"})
		return
	}

	sender := action.NewTracker(req).SenderID()
	ctx := ctxutil.WithSenderID(c.Request.Context(), sender)
	ctx = ctxutil.WithAction(ctx, req.NextAction)
	ctx = ctxutil.WithRequestID(ctx, requestID(c))

	if h.limiter != nil && !h.limiter.Allow(sender) {
		h.record(ctx, req.NextAction, "rate_limited", start, errors.ErrRateLimitExceeded, nil)
		c.JSON(http.StatusOK, action.Response{
			Events:    []action.Event{},
			Responses: []action.Message{{Text: MsgSlowDown}},
		})
		return
	}

	if h.actionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.actionTimeout)
		defer cancel()
	}

	resp, err := h.registry.Run(ctx, req)
	switch {
	case errors.IsUnknownAction(err):
		h.record(ctx, req.NextAction, "unknown_action", start, err, nil)
		c.JSON(http.StatusNotFound, action.ErrorResponse{
			Error:      fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
			ActionName: req.NextAction,
		})
	case err != nil:
		h.record(ctx, req.NextAction, "error", start, err, nil)
		c.JSON(http.StatusInternalServerError, action.ErrorResponse{
			Error:      "action failed",
			ActionName: req.NextAction,
		})
	default:
		h.record(ctx, req.NextAction, "success", start, nil, resp)
		c.JSON(http.StatusOK, resp)
	}
}

// ListActions is the Gin handler for GET /actions.
func (h *Handler) ListActions(c *gin.Context) {
	names := h.registry.Names()
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		out = append(out, gin.H{"name": name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) authorized(c *gin.Context) bool {
	if h.token == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(c.Query("token")), []byte(h.token)) == 1
}

// decode reads the call body. Numbers are kept as json.Number so slot
// values reach the validators unchanged.
func (h *Handler) decode(c *gin.Context) (*action.Request, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: body exceeds %d bytes", errors.ErrInvalidInput, tooLarge.Limit)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}

	var req action.Request
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrInvalidInput, err)
	}
	if req.NextAction == "" {
		return nil, fmt.Errorf("%w: next_action is required", errors.ErrInvalidInput)
	}
	return &req, nil
}

func requestID(c *gin.Context) string {
	if id := c.GetHeader(RequestIDHeader); id != "" && len(id) <= 128 {
		return id
	}
	return uuid.NewString()
}

// record writes the one log line and the metrics of an action call.
func (h *Handler) record(ctx context.Context, actionName, status string, start time.Time, err error, resp *action.Response) {
	elapsed := time.Since(start)
	if h.metrics != nil {
		h.metrics.RecordAction(actionName, status, elapsed.Seconds())
	}

	log := h.logger.WithField("status", status).WithField("duration_ms", elapsed.Milliseconds())
	if resp != nil {
		log = log.WithField("events", len(resp.Events)).WithField("responses", len(resp.Responses))
	}
	if err != nil {
		log = log.WithError(err)
	}

	switch status {
	case "success":
		log.InfoContext(ctx, "Action call")
	case "error":
		log.ErrorContext(ctx, "Action call failed")
	default:
		log.WarnContext(ctx, "Action call not run")
	}
}
