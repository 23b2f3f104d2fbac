// Package recorder persists audit records for guardrails evaluations.
//
// The recorder is the only component that sees raw input text, and it
// only ever hashes it: the stored record carries a SHA-256 digest, never
// the text itself. Writes are synchronous with a bounded retry so the
// caller learns about persistence failures distinctly from evaluation
// results.
package recorder
