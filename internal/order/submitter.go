package order

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/mitchellh/hashstructure"
	"golang.org/x/sync/singleflight"

	"github.com/gangsheet-builders/order-actions/internal/ctxutil"
	"github.com/gangsheet-builders/order-actions/internal/errors"
	"github.com/gangsheet-builders/order-actions/internal/form"
	"github.com/gangsheet-builders/order-actions/internal/logger"
	"github.com/gangsheet-builders/order-actions/internal/metrics"
	"github.com/gangsheet-builders/order-actions/internal/sentry"
)

// AckMessage is shown before the order is sent.
const AckMessage = "Perfect! Submitting your order details to create a confirmation..."

const (
	msgConfirmed       = "Success! Your order confirmation is #%s. A confirmation has also been sent to %s."
	msgUploadLink      = "**IMPORTANT:** Please upload your print file for order #%s using this link:\n[Click here to upload your file](%s)"
	msgConfirmedNoID   = "Success! Your order is confirmed. Please check your email at %s for instructions on how to upload your file."
	msgHTTPError       = "Sorry, there was an error submitting your order (Code: %d). Please contact support."
	msgConnectionError = "Sorry, I can't connect to the ordering system right now. Please try again in a few minutes."
	msgUnknownError    = "An unknown error occurred: %v"
)

// Status classifies a submission.
type Status string

const (
	StatusConfirmed       Status = "confirmed"
	StatusConfirmedNoID   Status = "confirmed_no_id"
	StatusHTTPError       Status = "http_error"
	StatusConnectionError Status = "connection_error"
	StatusUnknownError    Status = "unknown_error"
)

// idempotencyNamespace seeds the deterministic Idempotency-Key UUIDs.
var idempotencyNamespace = uuid.MustParse("9b0e5f6c-3d2a-4f7e-8c1b-6a4d2e9f0c37")

const stepSubmit = "submit order"

// Outcome is the result of one submission.
type Outcome struct {
	Status  Status
	OrderID string

	// Messages are shown to the user after AckMessage.
	Messages []string

	// Updates clear the form. They are returned on every path.
	Updates []form.Update

	// Err is a *errors.ReplyError carrying the customer reply on failure.
	Err error

	// Replayed is true when the outcome came from an earlier identical
	// submission instead of a new call to the order system.
	Replayed bool
}

// Submission is a completed form ready to become an order.
type Submission struct {
	SenderID string

	// FormRun tells apart separate fillings of the form in one
	// conversation. Only submissions of the same run are replayed.
	FormRun string

	Values form.Values
}

// SubmitterConfig configures a Submitter.
type SubmitterConfig struct {
	Creator       Creator
	UploadBaseURL string

	// DedupWindow is how long a confirmed order is replayed to identical
	// submissions. Zero disables replay; in-flight collapsing stays on.
	DedupWindow    time.Duration
	DedupCacheSize int

	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// Submitter turns a completed form into an order.
type Submitter struct {
	creator       Creator
	uploadBaseURL string
	inflight      singleflight.Group
	recent        *expirable.LRU[string, Confirmation]
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

// NewSubmitter creates a submitter.
func NewSubmitter(cfg SubmitterConfig) *Submitter {
	s := &Submitter{
		creator:       cfg.Creator,
		uploadBaseURL: strings.TrimRight(cfg.UploadBaseURL, "/"),
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
	}
	if s.logger == nil {
		s.logger = logger.New("error")
	}
	s.logger = s.logger.WithModule("order")
	if cfg.DedupWindow > 0 {
		size := cfg.DedupCacheSize
		if size <= 0 {
			size = 1024
		}
		s.recent = expirable.NewLRU[string, Confirmation](size, nil, cfg.DedupWindow)
	}
	return s
}

// BuildPayload maps form values to the order payload.
func BuildPayload(senderID string, v form.Values) Payload {
	qty, _ := v.Number(form.FieldQuantity)
	return Payload{
		Product:        v.String(form.FieldProduct),
		Category:       v.String(form.FieldCategory),
		Quantity:       qty,
		Size:           v.String(form.FieldSize),
		CustomerName:   v.String(form.FieldCustomerName),
		CustomerEmail:  v.String(form.FieldCustomerEmail),
		ShippingMethod: v.String(form.FieldShippingMethod),
		SenderID:       senderID,
	}
}

// Fingerprint identifies a submission. Equal payloads from the same
// conversation and form run share a fingerprint.
func Fingerprint(p Payload, formRun string) (string, error) {
	h, err := hashstructure.Hash(p, nil)
	if err != nil {
		return "", fmt.Errorf("hash order payload: %w", err)
	}
	return p.SenderID + ":" + formRun + ":" + strconv.FormatUint(h, 16), nil
}

// IdempotencyKey derives the header value sent with a submission.
func IdempotencyKey(fingerprint string) string {
	return uuid.NewSHA1(idempotencyNamespace, []byte(fingerprint)).String()
}

// Submit sends the order built from sub and describes the result. The
// form is cleared whatever happens.
func (s *Submitter) Submit(ctx context.Context, sub Submission) Outcome {
	p := BuildPayload(sub.SenderID, sub.Values)
	log := s.logger.WithField("sender_id", sub.SenderID)

	fp, err := Fingerprint(p, sub.FormRun)
	if err != nil {
		// Without a fingerprint there is nothing to dedupe on.
		log.WithError(err).WarnContext(ctx, "Order fingerprint unavailable")
		conf, err := s.create(ctx, p, "")
		return s.outcome(ctx, p, conf, err, false)
	}

	if s.recent != nil {
		if conf, ok := s.recent.Get(fp); ok {
			s.recordDedup("replay")
			log.WithField("order_id", conf.OrderID).InfoContext(ctx, "Replaying confirmed order")
			return s.outcome(ctx, p, conf, nil, true)
		}
	}

	res, err, shared := s.inflight.Do(fp, func() (any, error) {
		conf, err := s.create(ctx, p, IdempotencyKey(fp))
		if err == nil && s.recent != nil {
			s.recent.Add(fp, conf)
			if s.metrics != nil {
				s.metrics.SetOrderDedupEntries(s.recent.Len())
			}
		}
		return conf, err
	})
	if shared {
		s.recordDedup("inflight")
	}
	conf, _ := res.(Confirmation)
	return s.outcome(ctx, p, conf, err, shared)
}

// create calls the order system on a context that survives the host
// hanging up but still honours the action deadline.
func (s *Submitter) create(ctx context.Context, p Payload, key string) (Confirmation, error) {
	callCtx := ctxutil.PreserveTracing(ctx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithDeadline(callCtx, deadline)
		defer cancel()
	}

	start := time.Now()
	conf, err := s.creator.Create(callCtx, p, key)
	if s.metrics != nil {
		s.metrics.RecordOrderSubmission(string(classify(conf, err)), time.Since(start).Seconds())
	}
	return conf, err
}

func (s *Submitter) recordDedup(source string) {
	if s.metrics != nil {
		s.metrics.RecordOrderDedup(source)
	}
}

func classify(conf Confirmation, err error) Status {
	switch {
	case err == nil && conf.OrderID != "":
		return StatusConfirmed
	case err == nil:
		return StatusConfirmedNoID
	case isStatusError(err):
		return StatusHTTPError
	case errors.IsConnection(err), errors.IsTimeout(err):
		return StatusConnectionError
	default:
		return StatusUnknownError
	}
}

func isStatusError(err error) bool {
	_, ok := errors.StatusCode(err)
	return ok
}

func (s *Submitter) outcome(ctx context.Context, p Payload, conf Confirmation, err error, replayed bool) Outcome {
	out := Outcome{
		Status:   classify(conf, err),
		OrderID:  conf.OrderID,
		Updates:  form.ClearAll(),
		Replayed: replayed,
	}
	log := s.logger.WithField("sender_id", p.SenderID).WithField("status", string(out.Status))

	switch out.Status {
	case StatusConfirmed:
		out.Messages = []string{
			fmt.Sprintf(msgConfirmed, conf.OrderID, p.CustomerEmail),
			fmt.Sprintf(msgUploadLink, conf.OrderID, s.UploadLink(conf.OrderID)),
		}
		log.WithField("order_id", conf.OrderID).InfoContext(ctx, "Order confirmed")
		return out
	case StatusConfirmedNoID:
		out.Messages = []string{fmt.Sprintf(msgConfirmedNoID, p.CustomerEmail)}
		log.InfoContext(ctx, "Order confirmed without id")
		return out
	case StatusHTTPError:
		code, _ := errors.StatusCode(err)
		out.Err = errors.Replyingf(stepSubmit, err, msgHTTPError, code)
		log.WithError(err).WarnContext(ctx, "Order API rejected submission")
	case StatusConnectionError:
		out.Err = errors.Replying(stepSubmit, err, msgConnectionError)
		log.WithError(err).WarnContext(ctx, "Order API unreachable")
	default:
		out.Err = errors.Replyingf(stepSubmit, err, msgUnknownError, err)
		log.WithError(err).ErrorContext(ctx, "Order submission failed")
		sentry.CaptureException(ctx, err, map[string]string{"module": "order", "operation": "submit"})
	}
	out.Messages = []string{errors.ReplyFor(out.Err, fmt.Sprintf(msgUnknownError, err))}
	return out
}

// UploadLink returns the page where the customer uploads artwork for id.
func (s *Submitter) UploadLink(id string) string {
	return s.uploadBaseURL + "/" + url.PathEscape(id)
}

// Remembered returns the number of confirmations held for replay.
func (s *Submitter) Remembered() int {
	if s.recent == nil {
		return 0
	}
	return s.recent.Len()
}
