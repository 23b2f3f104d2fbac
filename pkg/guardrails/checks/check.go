package checks

import (
	"context"

	"aegis-hq/aegis/pkg/guardrails"
)

// Detector is the capability interface every built-in check implements.
// Implementations must be side-effect-free, safe for concurrent use, and
// respect context cancellation.
type Detector interface {
	// ID returns the detector's check identifier as recorded in the
	// outcome's checks_run.
	ID() string

	// Detect inspects the input and returns a finding, or nil when the
	// input is clean. An error is treated by the engine as a check
	// fault: logged and counted, never fatal to the evaluation.
	Detect(ctx context.Context, inputText string, reqCtx map[string]any) (*guardrails.Finding, error)
}

// BuiltIns returns the built-in detectors in their fixed evaluation
// order: PII, content safety, prompt injection.
func BuiltIns() []Detector {
	return []Detector{
		NewPIIDetector(),
		NewContentSafetyDetector(),
		NewPromptInjectionDetector(),
	}
}
