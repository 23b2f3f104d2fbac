// Package metrics provides Prometheus instrumentation for the
// guardrails service. A Collector owns the registry and the metric
// families for evaluations and the audit trail, and exposes them via a
// promhttp handler.
package metrics
