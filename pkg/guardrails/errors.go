package guardrails

import "fmt"

// CheckFault represents a detector that errored during evaluation.
// Faulted checks are treated as "no finding"; the fault is logged and
// noted on the outcome but never aborts the evaluation.
type CheckFault struct {
	CheckID string // Detector that errored
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *CheckFault) Error() string {
	return fmt.Sprintf("check fault [check_id=%s]: %v", e.CheckID, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *CheckFault) Unwrap() error {
	return e.Cause
}

// NewCheckFault creates a new CheckFault.
func NewCheckFault(checkID string, cause error) *CheckFault {
	return &CheckFault{
		CheckID: checkID,
		Cause:   cause,
	}
}
