package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric namespace and subsystem shared by all families.
const (
	Namespace = "aegis"
	Subsystem = "guardrails"
)

// EvaluationMetrics tracks decision engine activity.
//
// Metrics:
//   - aegis_guardrails_evaluations_total: evaluation count by decision
//   - aegis_guardrails_evaluation_duration_seconds: evaluation latency
//   - aegis_guardrails_findings_total: findings by check and severity
//   - aegis_guardrails_check_faults_total: tolerated detector failures
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	findingsTotal      *prometheus.CounterVec
	checkFaultsTotal   *prometheus.CounterVec
}

// NewEvaluationMetrics creates and registers evaluation metrics.
func NewEvaluationMetrics(registry *prometheus.Registry) *EvaluationMetrics {
	em := &EvaluationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of prompt evaluations by final decision",
			},
			[]string{"decision"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of prompt evaluations in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
			},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "findings_total",
				Help:      "Total number of check and custom policy findings",
			},
			[]string{"check_id", "severity"},
		),

		checkFaultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: Subsystem,
				Name:      "check_faults_total",
				Help:      "Total number of detector failures tolerated during evaluation",
			},
			[]string{"check_id"},
		),
	}

	registry.MustRegister(
		em.evaluationsTotal,
		em.evaluationDuration,
		em.findingsTotal,
		em.checkFaultsTotal,
	)

	return em
}

// RecordEvaluation records one completed evaluation.
func (em *EvaluationMetrics) RecordEvaluation(decision string, duration time.Duration) {
	em.evaluationsTotal.WithLabelValues(decision).Inc()
	em.evaluationDuration.Observe(duration.Seconds())
}

// RecordFinding records one finding.
func (em *EvaluationMetrics) RecordFinding(checkID, severity string) {
	em.findingsTotal.WithLabelValues(checkID, severity).Inc()
}

// RecordCheckFault records one tolerated detector failure.
func (em *EvaluationMetrics) RecordCheckFault(checkID string) {
	em.checkFaultsTotal.WithLabelValues(checkID).Inc()
}
