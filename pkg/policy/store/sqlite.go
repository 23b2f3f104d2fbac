package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"aegis-hq/aegis/pkg/policy"
)

// policySchema contains the SQL statements to create the policy tables.
const policySchema = `
CREATE TABLE IF NOT EXISTS policies (
    id TEXT PRIMARY KEY,
    customer_id TEXT NOT NULL,
    name TEXT NOT NULL,
    agent_id TEXT,
    policy_type TEXT NOT NULL,
    rule_json TEXT,
    enabled BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_policies_agent_id ON policies(agent_id);
CREATE INDEX IF NOT EXISTS idx_policies_enabled ON policies(enabled);
`

// SQLiteConfig contains configuration for the SQLite policy store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/policies.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements policy.Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite policy store and initializes the
// schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "policy.store.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, policy.NewStoreError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite policy store initialized",
		"path", config.Path,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the schema and busy timeout.
func (s *SQLiteStore) initialize() error {
	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return policy.NewStoreError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(policySchema); err != nil {
		return policy.NewStoreError("sqlite", "create_schema", err)
	}
	s.logger.Debug("policy schema created")

	return nil
}

// FetchEnabled returns enabled policies applicable to the agent.
// Order is stable for a given snapshot: created_at then id.
func (s *SQLiteStore) FetchEnabled(ctx context.Context, agentID string) ([]*policy.Policy, error) {
	query := `
		SELECT id, customer_id, name, agent_id, policy_type, rule_json, enabled, created_at
		FROM policies
		WHERE enabled = 1 AND (agent_id IS NULL OR agent_id = ?)
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, policy.NewStoreError("sqlite", "fetch", err)
	}
	defer rows.Close()

	return scanPolicies(rows)
}

// Create persists a new policy. A missing id or created_at is filled in.
func (s *SQLiteStore) Create(ctx context.Context, p *policy.Policy) error {
	if err := policy.Validate(p); err != nil {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	ruleJSON, err := json.Marshal(p.Rule)
	if err != nil {
		return policy.NewStoreError("sqlite", "create", err)
	}

	var agentID any
	if p.AgentID != "" {
		agentID = p.AgentID
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO policies (id, customer_id, name, agent_id, policy_type, rule_json, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.CustomerID, p.Name, agentID, string(p.Type), string(ruleJSON), p.Enabled, p.CreatedAt)
	if err != nil {
		return policy.NewStoreError("sqlite", "create", err)
	}

	s.logger.Debug("policy created", "policy_id", p.ID, "policy_type", p.Type)
	return nil
}

// List returns all policies.
func (s *SQLiteStore) List(ctx context.Context) ([]*policy.Policy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, name, agent_id, policy_type, rule_json, enabled, created_at
		FROM policies
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, policy.NewStoreError("sqlite", "list", err)
	}
	defer rows.Close()

	return scanPolicies(rows)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanPolicies reads policy rows into the domain type.
func scanPolicies(rows *sql.Rows) ([]*policy.Policy, error) {
	var results []*policy.Policy

	for rows.Next() {
		var (
			p        policy.Policy
			agentID  sql.NullString
			ruleJSON sql.NullString
			ptype    string
		)

		err := rows.Scan(&p.ID, &p.CustomerID, &p.Name, &agentID, &ptype, &ruleJSON, &p.Enabled, &p.CreatedAt)
		if err != nil {
			return nil, policy.NewStoreError("sqlite", "scan", err)
		}

		p.Type = policy.Type(ptype)
		if agentID.Valid {
			p.AgentID = agentID.String
		}
		if ruleJSON.Valid && ruleJSON.String != "" {
			if err := json.Unmarshal([]byte(ruleJSON.String), &p.Rule); err != nil {
				return nil, policy.NewStoreError("sqlite", "scan", err)
			}
		}

		results = append(results, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, policy.NewStoreError("sqlite", "scan", err)
	}

	return results, nil
}
