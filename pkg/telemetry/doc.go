// Package telemetry groups the observability subpackages.
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics collection and exposition
package telemetry
