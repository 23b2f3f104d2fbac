// Package guardrails defines the core domain model for prompt evaluation:
// the decision lattice (DENIED > WARN > ALLOWED), findings produced by
// detectors, and the request/outcome types exchanged between the transport
// layer and the decision engine.
//
// The evaluation pipeline itself lives in subpackages:
//   - checks:  built-in detectors (PII, content safety, prompt injection)
//   - rules:   custom deny-keyword rule evaluation
//   - engine:  the decision engine that orchestrates checks and policies
package guardrails
