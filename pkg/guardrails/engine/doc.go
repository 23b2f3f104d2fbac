// Package engine implements the guardrails decision engine. It runs the
// built-in detectors in fixed order, applies customer policies from a
// policy.Store, folds findings into a monotonic decision (DENIED over
// WARN over ALLOWED), and attributes the outcome to at most one policy.
//
// The engine is fault-tolerant: a failing detector counts as "no
// finding", and a failing policy store degrades evaluation according to
// the configured fail mode instead of aborting it.
package engine
