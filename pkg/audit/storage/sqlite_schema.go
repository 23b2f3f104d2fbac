package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the audit database schema.
// policy_id is nullable: a record with no attributable policy stores NULL,
// never a fabricated identifier.
const Schema = `
-- Audit records table (append-only)
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    agent_id TEXT NOT NULL,
    policy_id TEXT,
    timestamp TIMESTAMP NOT NULL,
    input_hash TEXT NOT NULL,
    decision TEXT NOT NULL,
    latency_ms INTEGER NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_agent_id ON audit_records(agent_id);
CREATE INDEX IF NOT EXISTS idx_audit_policy_id ON audit_records(policy_id);
CREATE INDEX IF NOT EXISTS idx_audit_decision ON audit_records(decision);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
