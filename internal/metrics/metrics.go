// Package metrics defines the Prometheus metrics exported by the action server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Action metrics
	ActionRequestsTotal   *prometheus.CounterVec
	ActionDurationSeconds *prometheus.HistogramVec

	// Form metrics
	ValidationRejectionsTotal *prometheus.CounterVec
	FormCancellationsTotal    prometheus.Counter

	// Quote metrics
	QuotesTotal *prometheus.CounterVec

	// Order metrics
	OrderSubmissionsTotal  *prometheus.CounterVec
	OrderDurationSeconds   prometheus.Histogram
	OrderDedupTotal        *prometheus.CounterVec
	OrderDedupCacheEntries prometheus.Gauge

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec
	RateLimiterSenders prometheus.Gauge
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		ActionRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_action_requests_total",
				Help: "Total number of action calls by action and status",
			},
			[]string{"action", "status"}, // status: success, error, unknown_action, rate_limited
		),

		ActionDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gsb_action_duration_seconds",
				Help:    "Action processing duration in seconds by action",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"action"},
		),

		ValidationRejectionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_validation_rejections_total",
				Help: "Total number of rejected slot values by field",
			},
			[]string{"field"},
		),

		FormCancellationsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "gsb_form_cancellations_total",
				Help: "Total number of order forms cancelled by the user",
			},
		),

		QuotesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_quotes_total",
				Help: "Total number of price quotes by kind",
			},
			[]string{"kind"}, // kind: size, product, menu, unknown
		),

		OrderSubmissionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_order_submissions_total",
				Help: "Total number of order submissions by outcome",
			},
			[]string{"outcome"}, // outcome: confirmed, confirmed_no_id, http_error, connection_error, unknown_error
		),

		OrderDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gsb_order_duration_seconds",
				Help:    "Order API round trip duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),

		OrderDedupTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_order_dedup_total",
				Help: "Total number of duplicate submissions that did not reach the order API",
			},
			[]string{"source"}, // source: inflight, replay
		),

		OrderDedupCacheEntries: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "gsb_order_dedup_cache_entries",
				Help: "Current number of remembered order submissions",
			},
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "gsb_rate_limiter_dropped_total",
				Help: "Total number of action calls dropped by rate limiter",
			},
			[]string{"limiter_type"},
		),

		RateLimiterSenders: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "gsb_rate_limiter_active_senders",
				Help: "Current number of conversations tracked by the rate limiter",
			},
		),
	}

	return m
}

// RecordAction records one action call
func (m *Metrics) RecordAction(action, status string, duration float64) {
	m.ActionRequestsTotal.WithLabelValues(action, status).Inc()
	m.ActionDurationSeconds.WithLabelValues(action).Observe(duration)
}

// RecordValidationRejection records a rejected slot value
func (m *Metrics) RecordValidationRejection(field string) {
	m.ValidationRejectionsTotal.WithLabelValues(field).Inc()
}

// RecordCancellation records a user-cancelled form
func (m *Metrics) RecordCancellation() {
	m.FormCancellationsTotal.Inc()
}

// RecordQuote records a quote by kind
func (m *Metrics) RecordQuote(kind string) {
	m.QuotesTotal.WithLabelValues(kind).Inc()
}

// RecordOrderSubmission records a submission outcome and the API round trip
func (m *Metrics) RecordOrderSubmission(outcome string, duration float64) {
	m.OrderSubmissionsTotal.WithLabelValues(outcome).Inc()
	m.OrderDurationSeconds.Observe(duration)
}

// RecordOrderDedup records a submission served without calling the order API
func (m *Metrics) RecordOrderDedup(source string) {
	m.OrderDedupTotal.WithLabelValues(source).Inc()
}

// SetOrderDedupEntries sets the dedup cache size gauge
func (m *Metrics) SetOrderDedupEntries(count int) {
	m.OrderDedupCacheEntries.Set(float64(count))
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetRateLimiterSenders sets the number of tracked conversations
func (m *Metrics) SetRateLimiterSenders(count int) {
	m.RateLimiterSenders.Set(float64(count))
}
