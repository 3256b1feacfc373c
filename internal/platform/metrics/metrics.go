package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	RegistrationsUpdated prometheus.Counter
	RegistrationsDeleted prometheus.Counter
	ValidationFailures   *prometheus.CounterVec
	MediaUploads         *prometheus.CounterVec
	AuthFailures         prometheus.Counter
	QueryLatency         prometheus.Histogram
	EndpointLatency      *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "regdesk_registrations_created_total",
			Help: "Total number of registrations created",
		}),
		RegistrationsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "regdesk_registrations_updated_total",
			Help: "Total number of registrations updated",
		}),
		RegistrationsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "regdesk_registrations_deleted_total",
			Help: "Total number of registrations deleted",
		}),
		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_validation_failures_total",
			Help: "Total number of rejected submissions by operation",
		}, []string{"operation"}),
		MediaUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "regdesk_media_uploads_total",
			Help: "Total number of media uploads by kind and outcome",
		}, []string{"kind", "outcome"}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "regdesk_auth_failures_total",
			Help: "Total number of failed admin login attempts",
		}),
		QueryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "regdesk_dashboard_query_latency_seconds",
			Help:    "Latency of dashboard list queries in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "regdesk_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// IncCreated bumps the created counter when metrics are enabled.
func (m *Metrics) IncCreated() {
	if m == nil {
		return
	}
	m.RegistrationsCreated.Inc()
}

// IncUpdated bumps the updated counter when metrics are enabled.
func (m *Metrics) IncUpdated() {
	if m == nil {
		return
	}
	m.RegistrationsUpdated.Inc()
}

// IncDeleted bumps the deleted counter when metrics are enabled.
func (m *Metrics) IncDeleted() {
	if m == nil {
		return
	}
	m.RegistrationsDeleted.Inc()
}

// IncValidationFailure records a rejected submission for the given operation.
func (m *Metrics) IncValidationFailure(operation string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(operation).Inc()
}

// IncMediaUpload records an upload attempt by kind and outcome.
func (m *Metrics) IncMediaUpload(kind, outcome string) {
	if m == nil {
		return
	}
	m.MediaUploads.WithLabelValues(kind, outcome).Inc()
}

// IncAuthFailure records a failed admin login.
func (m *Metrics) IncAuthFailure() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

// ObserveQueryLatency records a dashboard query duration when metrics are enabled.
func (m *Metrics) ObserveQueryLatency(seconds float64) {
	if m == nil {
		return
	}
	m.QueryLatency.Observe(seconds)
}

// ObserveEndpointLatency records the duration of a handler invocation.
func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}
