package policy

import (
	"context"
	"time"

	"aegis-hq/aegis/pkg/guardrails"
)

// Type classifies a policy.
type Type string

const (
	// TypePII enables attribution of PII detector findings.
	TypePII Type = "pii"

	// TypeContentSafety enables attribution of content safety findings.
	TypeContentSafety Type = "content_safety"

	// TypePromptInjection enables attribution of prompt injection findings.
	TypePromptInjection Type = "prompt_injection"

	// TypeCustom carries customer-defined deny-keyword rules.
	TypeCustom Type = "custom"
)

// Valid reports whether t is a known policy type.
func (t Type) Valid() bool {
	switch t {
	case TypePII, TypeContentSafety, TypePromptInjection, TypeCustom:
		return true
	}
	return false
}

// CheckID returns the built-in check identifier this policy type
// corresponds to, or empty for custom policies.
func (t Type) CheckID() string {
	switch t {
	case TypePII:
		return guardrails.CheckPIIDetection
	case TypeContentSafety:
		return guardrails.CheckContentSafety
	case TypePromptInjection:
		return guardrails.CheckPromptInjection
	}
	return ""
}

// RuleSpec is the structured rule body of a policy. For custom policies
// it holds an ordered deny-keyword list; built-in typed policies carry
// no rule body.
type RuleSpec struct {
	// DenyKeywords is evaluated in declared order; the first matching
	// keyword wins.
	DenyKeywords []string `json:"deny_keywords,omitempty" yaml:"deny_keywords,omitempty"`
}

// Policy is one customer-configured rule that can trigger or be
// attributed during evaluation. Identity is ID; policies are never
// mutated once evaluated against.
type Policy struct {
	ID         string    `json:"id" yaml:"id"`
	CustomerID string    `json:"customer_id" yaml:"customer_id"`
	Name       string    `json:"name" yaml:"name"`
	AgentID    string    `json:"agent_id,omitempty" yaml:"agent_id,omitempty"` // empty = all agents
	Type       Type      `json:"policy_type" yaml:"policy_type"`
	Rule       RuleSpec  `json:"rule_spec" yaml:"rule_spec"`
	Enabled    bool      `json:"enabled" yaml:"enabled"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// AppliesTo reports whether the policy is in scope for the given agent.
// A policy with no agent scope applies to all agents.
func (p *Policy) AppliesTo(agentID string) bool {
	return p.AgentID == "" || p.AgentID == agentID
}

// Store provides access to policies. The decision engine uses only
// FetchEnabled; Create and List back the CRUD surface.
//
// Implementations must be safe for concurrent use. FetchEnabled must
// return a stable order for a given snapshot of the policy set, since
// attribution ties are broken by store iteration order.
type Store interface {
	// FetchEnabled returns the enabled policies applicable to the
	// agent, in stable store order.
	FetchEnabled(ctx context.Context, agentID string) ([]*Policy, error)

	// Create persists a new policy.
	Create(ctx context.Context, p *Policy) error

	// List returns all policies, enabled or not.
	List(ctx context.Context) ([]*Policy, error)

	// Close releases any resources held by the store.
	Close() error
}
