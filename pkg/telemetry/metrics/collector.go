package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus registry and all metric families. Its
// Record* methods satisfy the instrumentation interfaces of the
// decision engine and the audit recorder.
type Collector struct {
	registry *prometheus.Registry

	evaluation *EvaluationMetrics
	audit      *AuditMetrics
}

// NewCollector creates a metrics collector. If registry is nil, a new
// registry is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	return &Collector{
		registry:   registry,
		evaluation: NewEvaluationMetrics(registry),
		audit:      NewAuditMetrics(registry),
	}
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordEvaluation records one completed evaluation.
func (c *Collector) RecordEvaluation(decision string, duration time.Duration) {
	c.evaluation.RecordEvaluation(decision, duration)
}

// RecordFinding records one detector or custom policy finding.
func (c *Collector) RecordFinding(checkID, severity string) {
	c.evaluation.RecordFinding(checkID, severity)
}

// RecordCheckFault records one tolerated detector failure.
func (c *Collector) RecordCheckFault(checkID string) {
	c.evaluation.RecordCheckFault(checkID)
}

// RecordWrite records one audit write attempt.
func (c *Collector) RecordWrite(status string, duration time.Duration) {
	c.audit.RecordWrite(status, duration)
}
