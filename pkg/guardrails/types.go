package guardrails

import "time"

// Decision is the final verdict of an evaluation.
type Decision string

const (
	// DecisionAllowed permits the prompt to proceed.
	DecisionAllowed Decision = "ALLOWED"

	// DecisionWarn permits the prompt but flags it for review.
	DecisionWarn Decision = "WARN"

	// DecisionDenied blocks the prompt.
	DecisionDenied Decision = "DENIED"
)

// rank orders decisions by strength. DENIED always wins over WARN,
// WARN always wins over ALLOWED.
func (d Decision) rank() int {
	switch d {
	case DecisionDenied:
		return 2
	case DecisionWarn:
		return 1
	default:
		return 0
	}
}

// Stronger returns the stronger of two decisions. Folding evaluation
// results through Stronger guarantees monotonicity: once DENIED is
// reached it can never be downgraded.
func Stronger(a, b Decision) Decision {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

// Severity classifies the impact of a finding.
type Severity string

const (
	// SeverityDeny findings force the decision to DENIED.
	SeverityDeny Severity = "DENY"

	// SeverityWarn findings set the decision to WARN only while the
	// current decision is ALLOWED.
	SeverityWarn Severity = "WARN"
)

// Check identifiers recorded in EvaluationOutcome.ChecksRun.
const (
	CheckPIIDetection    = "PII_Detection"
	CheckContentSafety   = "Content_Safety"
	CheckPromptInjection = "Prompt_Injection"
)

// CustomCheckID returns the checks_run identifier for a triggered custom
// policy, e.g. "Custom_Policy:block-competitors".
func CustomCheckID(policyName string) string {
	return "Custom_Policy:" + policyName
}

// ReasonNoIssues is the outcome reason when no check or policy triggered.
const ReasonNoIssues = "No issues detected."

// Finding is the result of a single detector signalling a problem.
type Finding struct {
	// CheckID identifies the detector that produced the finding.
	CheckID string

	// Severity is DENY or WARN.
	Severity Severity

	// Reason is a human-readable explanation suitable for the outcome.
	Reason string
}

// EvaluationRequest is one prompt to evaluate. It is ephemeral; nothing
// of it is persisted except a content digest in the audit trail.
type EvaluationRequest struct {
	// AgentID identifies the agent the prompt is addressed to. Policies
	// scoped to this agent (or unscoped) apply.
	AgentID string

	// InputText is the raw prompt text under evaluation.
	InputText string

	// Context carries optional caller-provided metadata made available
	// to detectors. May be nil.
	Context map[string]any
}

// EvaluationOutcome is the immutable result of evaluating one request.
// Exactly one outcome is produced per request, even when individual
// checks or the policy store fail.
type EvaluationOutcome struct {
	// Decision is the final verdict.
	Decision Decision

	// Reason explains the decision.
	Reason string

	// ChecksRun lists, in execution order, the identifiers of checks
	// and custom policies that produced a finding.
	ChecksRun []string

	// AttributedPolicyID is the id of the policy responsible for the
	// outcome, or empty when no policy is attributable. It is persisted
	// as NULL when empty, never synthesized.
	AttributedPolicyID string

	// Faults lists internal faults (check errors, policy store errors)
	// tolerated during evaluation. A fault never downgrades a decision
	// already produced by an executed check.
	Faults []string

	// EvaluationTime is how long the evaluation took.
	EvaluationTime time.Duration
}
