// Package checks contains the built-in detectors that inspect prompt text
// independently of customer policy configuration.
//
// Each detector implements the Detector capability interface and is
// stateless per call. The shipped implementations are heuristic
// (pattern and phrase matching); production-grade classifiers or external
// moderation APIs can be substituted behind the same interface without
// touching the decision engine.
package checks
