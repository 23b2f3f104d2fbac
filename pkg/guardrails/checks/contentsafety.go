package checks

import (
	"context"
	"strings"

	"aegis-hq/aegis/pkg/guardrails"
)

// ContentSafetyDetector flags prompts that violate content safety rules.
// The heuristic implementation matches a fixed term list; it stands in
// for an external moderation API call.
type ContentSafetyDetector struct {
	terms []string
}

// NewContentSafetyDetector creates a content safety detector with the
// default term list.
func NewContentSafetyDetector() *ContentSafetyDetector {
	return &ContentSafetyDetector{
		terms: []string{
			"violence",
			"terrorism",
			"self-harm",
			"weapons trafficking",
		},
	}
}

// NewContentSafetyDetectorWithTerms creates a content safety detector
// with a custom term list.
func NewContentSafetyDetectorWithTerms(terms []string) *ContentSafetyDetector {
	return &ContentSafetyDetector{terms: terms}
}

// ID implements Detector.
func (d *ContentSafetyDetector) ID() string {
	return guardrails.CheckContentSafety
}

// Detect implements Detector.
func (d *ContentSafetyDetector) Detect(ctx context.Context, inputText string, _ map[string]any) (*guardrails.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lowered := strings.ToLower(inputText)
	for _, term := range d.terms {
		if strings.Contains(lowered, term) {
			return &guardrails.Finding{
				CheckID:  d.ID(),
				Severity: guardrails.SeverityDeny,
				Reason:   "Content safety violation detected.",
			}, nil
		}
	}

	return nil, nil
}
