package policy

import "fmt"

// StoreError represents a policy store failure (connectivity, query).
// The decision engine tolerates it by evaluating built-in checks only.
type StoreError struct {
	Backend   string // Store backend type ("sqlite", "file", "memory")
	Operation string // Operation that failed ("fetch", "create", "list")
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("policy store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// ValidationError reports an invalid policy passed to Create.
type ValidationError struct {
	PolicyID string
	Field    string
	Message  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid policy [id=%s, field=%s]: %s", e.PolicyID, e.Field, e.Message)
}

// Validate checks a policy for structural problems before persistence.
func Validate(p *Policy) error {
	if p.Name == "" {
		return &ValidationError{PolicyID: p.ID, Field: "name", Message: "name is required"}
	}
	if !p.Type.Valid() {
		return &ValidationError{PolicyID: p.ID, Field: "policy_type", Message: fmt.Sprintf("unknown type %q", p.Type)}
	}
	if p.Type == TypeCustom && len(p.Rule.DenyKeywords) == 0 {
		return &ValidationError{PolicyID: p.ID, Field: "rule_spec", Message: "custom policy requires deny_keywords"}
	}
	return nil
}
