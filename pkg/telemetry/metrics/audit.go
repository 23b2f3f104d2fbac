package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AuditMetrics tracks audit trail writes.
//
// Metrics:
//   - aegis_guardrails_audit_writes_total: writes by status
//   - aegis_guardrails_audit_write_duration_seconds: write latency
type AuditMetrics struct {
	writesTotal   *prometheus.CounterVec
	writeDuration prometheus.Histogram
}

// NewAuditMetrics creates and registers audit metrics.
func NewAuditMetrics(registry *prometheus.Registry) *AuditMetrics {
	am := &AuditMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "audit_writes_total",
				Help:      "Total number of audit record writes by status",
			},
			[]string{"status"},
		),

		writeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "audit_write_duration_seconds",
				Help:      "Duration of audit record writes in seconds",
				Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
			},
		),
	}

	registry.MustRegister(am.writesTotal, am.writeDuration)

	return am
}

// RecordWrite records one audit write attempt.
func (am *AuditMetrics) RecordWrite(status string, duration time.Duration) {
	am.writesTotal.WithLabelValues(status).Inc()
	am.writeDuration.Observe(duration.Seconds())
}
