package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the setup-alert workflow.
type Metrics struct {
	SetupRequests  *prometheus.CounterVec // labels: outcome={created,validation_error,conflict,limit_exceeded,gateway_error,internal_error}
	NotifyDuration prometheus.Histogram
	EventsDropped  prometheus.Counter
}

const (
	OutcomeCreated         = "created"
	OutcomeValidationError = "validation_error"
	OutcomeConflict        = "conflict"
	OutcomeLimitExceeded   = "limit_exceeded"
	OutcomeGatewayError    = "gateway_error"
	OutcomeInternalError   = "internal_error"
)

func newMetrics() *Metrics {
	return &Metrics{
		SetupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "air_alerts",
			Name:      "setup_requests_total",
			Help:      "Setup-alert requests by outcome.",
		}, []string{"outcome"}),
		NotifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "air_alerts",
			Name:      "notify_duration_seconds",
			Help:      "Duration of notification service calls.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "air_alerts",
			Name:      "setup_events_dropped_total",
			Help:      "Setup events that could not be published to Kafka.",
		}),
	}
}

// NewMetrics creates and registers the collectors with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.SetupRequests, m.NotifyDuration, m.EventsDropped)
	return m
}

// NewMetricsForTesting uses unregistered collectors so parallel tests do not
// trip the default registry's duplicate check.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
