// Package server provides the HTTP API for the guardrails service:
// prompt evaluation, policy management, health, and metrics endpoints,
// with graceful shutdown on signal or context cancellation.
package server
