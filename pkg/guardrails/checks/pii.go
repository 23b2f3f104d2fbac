package checks

import (
	"context"
	"regexp"
	"strings"

	"aegis-hq/aegis/pkg/guardrails"
)

// PIIDetector flags prompts containing personally identifiable
// information. The heuristic implementation matches common PII markers
// and number formats; it stands in for a real PII classifier.
type PIIDetector struct {
	markers  []string
	patterns []*regexp.Regexp
}

// NewPIIDetector creates a PII detector with the default marker and
// pattern set.
func NewPIIDetector() *PIIDetector {
	return &PIIDetector{
		markers: []string{
			"ssn",
			"social security",
			"credit card",
			"passport number",
			"driver's license",
		},
		patterns: []*regexp.Regexp{
			// SSN: 123-45-6789
			regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			// Card number: 13-16 digits, optionally separated
			regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`),
			// Email address
			regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		},
	}
}

// ID implements Detector.
func (d *PIIDetector) ID() string {
	return guardrails.CheckPIIDetection
}

// Detect implements Detector.
func (d *PIIDetector) Detect(ctx context.Context, inputText string, _ map[string]any) (*guardrails.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lowered := strings.ToLower(inputText)
	hit := false
	for _, marker := range d.markers {
		if strings.Contains(lowered, marker) {
			hit = true
			break
		}
	}

	if !hit {
		for _, pattern := range d.patterns {
			if pattern.MatchString(inputText) {
				hit = true
				break
			}
		}
	}

	if !hit {
		return nil, nil
	}

	return &guardrails.Finding{
		CheckID:  d.ID(),
		Severity: guardrails.SeverityDeny,
		Reason:   "PII detected in prompt.",
	}, nil
}
