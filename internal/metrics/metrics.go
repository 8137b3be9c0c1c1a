// Package metrics exposes Prometheus collectors for contact operations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Operation outcomes used as label values.
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation_error"
	OutcomeConflict   = "conflict"
	OutcomeNotFound   = "not_found"
	OutcomeStorage    = "storage_error"
)

// ContactMetrics counts create/list/delete calls by outcome and records their latency.
type ContactMetrics struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

func NewContactMetrics(reg prometheus.Registerer) *ContactMetrics {
	m := &ContactMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contactbook",
			Subsystem: "contacts",
			Name:      "operations_total",
			Help:      "Total contact operations by outcome",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "contactbook",
			Subsystem: "contacts",
			Name:      "operation_duration_seconds",
			Help:      "Latency of contact operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operations, m.latency)
	return m
}

func (m *ContactMetrics) ObserveOperation(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}
