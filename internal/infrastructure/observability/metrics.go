package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Checkout metrics
	CheckoutSessionsTotal *prometheus.CounterVec

	// Webhook metrics
	WebhookEventsTotal       *prometheus.CounterVec
	UnlocksRecordedTotal     prometheus.Counter
	UnlockWriteFailures      prometheus.Counter
	DuplicateDeliveriesTotal prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		CheckoutSessionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkout_sessions_total",
				Help:      "Total number of checkout session creation attempts by status",
			},
			[]string{"status"},
		),
		WebhookEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_events_total",
				Help:      "Total number of webhook events by type and outcome",
			},
			[]string{"event_type", "outcome"},
		),
		UnlocksRecordedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unlocks_recorded_total",
				Help:      "Total number of unlock records written",
			},
		),
		UnlockWriteFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "unlock_write_failures_total",
				Help:      "Total number of unlock inserts that failed after retries",
			},
		),
		DuplicateDeliveriesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "duplicate_event_deliveries_total",
				Help:      "Total number of webhook events delivered more than once",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	// Register all collectors
	factory.MustRegister(
		m.CheckoutSessionsTotal,
		m.WebhookEventsTotal,
		m.UnlocksRecordedTotal,
		m.UnlockWriteFailures,
		m.DuplicateDeliveriesTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}
