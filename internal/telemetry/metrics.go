// Package telemetry holds the Prometheus metrics recorded by the HTTP
// transport: one counter and one histogram per JSON-RPC method, the same
// shape as a request-count/request-duration pair, generalized from
// per-tenant labels to per-method labels for an aggregating gateway that has
// no tenants of its own.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for one transport instance.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the gateway's metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mcp_gateway",
				Name:      "requests_total",
				Help:      "Total number of JSON-RPC requests dispatched, by method and outcome",
			},
			[]string{"method", "status"}, // status=ok/error
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mcp_gateway",
				Name:      "request_duration_seconds",
				Help:      "JSON-RPC request dispatch duration in seconds, by method",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Observe records one dispatched request. Safe to call on a nil *Metrics.
func (m *Metrics) Observe(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(seconds)
}
