package audit

import (
	"context"
	"time"
)

// Record is one immutable audit row. Exactly one record is persisted
// per evaluation.
type Record struct {
	// ID is the record's UUID.
	ID string `json:"id"`

	// AgentID is the agent the evaluated prompt was addressed to.
	AgentID string `json:"agent_id"`

	// PolicyID is the attributed policy's id, or empty when no policy
	// is attributable. Persisted as NULL when empty; a placeholder id
	// is never fabricated.
	PolicyID string `json:"policy_id,omitempty"`

	// Timestamp is when the evaluation completed.
	Timestamp time.Time `json:"timestamp"`

	// InputHash is the SHA-256 hex digest of the input text. The raw
	// text is never stored.
	InputHash string `json:"input_hash"`

	// Decision is the evaluation verdict (ALLOWED, WARN, DENIED).
	Decision string `json:"decision"`

	// LatencyMS is the evaluation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`
}

// Query defines filter parameters for querying audit records.
type Query struct {
	// Time range (inclusive)
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Filters
	AgentID  string `json:"agent_id,omitempty"`
	PolicyID string `json:"policy_id,omitempty"`
	Decision string `json:"decision,omitempty"`

	// Pagination
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Storage defines the interface for audit storage backends.
// Implementations must be safe for concurrent use. The log is
// append-only; Delete exists solely for retention enforcement.
type Storage interface {
	// Append persists one audit record.
	Append(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, newest first.
	Query(ctx context.Context, query *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes records matching the filters and returns the
	// number deleted. Used only by retention enforcement.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases any resources held by the backend.
	Close() error
}
