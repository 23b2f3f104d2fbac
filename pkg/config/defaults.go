package config

import "time"

// Default values applied to unset configuration fields.
const (
	DefaultListenAddress   = ":8085"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20 // 1 MB
	DefaultShutdownTimeout = 10 * time.Second

	DefaultPolicyBackend    = "memory"
	DefaultPolicySQLitePath = "data/policies.db"
	DefaultPolicyFilePath   = "policies/"
	DefaultDebounceInterval = 500 * time.Millisecond

	DefaultFailMode           = "fail-closed"
	DefaultPolicyFetchTimeout = 250 * time.Millisecond

	DefaultAuditBackend      = "sqlite"
	DefaultAuditSQLitePath   = "data/audit.db"
	DefaultAuditMaxOpenConns = 10
	DefaultAuditMaxIdleConns = 5
	DefaultAuditBusyTimeout  = 5 * time.Second
	DefaultAuditWriteTimeout = 5 * time.Second
	DefaultAuditMaxRetries   = 2
	DefaultAuditRetryBackoff = 100 * time.Millisecond

	DefaultRetentionDays = 90
	DefaultPruneSchedule = "0 3 * * *"
	DefaultArchivePath   = "data/archives/"

	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMetricsPath = "/metrics"
)

// ApplyDefaults fills in default values for unset fields. Booleans keep
// their zero value unless the section implies otherwise; audit and
// metrics default to enabled via DefaultConfig, not here.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Policy.Backend == "" {
		cfg.Policy.Backend = DefaultPolicyBackend
	}
	if cfg.Policy.SQLite.Path == "" {
		cfg.Policy.SQLite.Path = DefaultPolicySQLitePath
	}
	if cfg.Policy.File.Path == "" {
		cfg.Policy.File.Path = DefaultPolicyFilePath
	}
	if cfg.Policy.File.DebounceInterval == 0 {
		cfg.Policy.File.DebounceInterval = DefaultDebounceInterval
	}

	if cfg.Guardrails.FailMode == "" {
		cfg.Guardrails.FailMode = DefaultFailMode
	}
	if cfg.Guardrails.PolicyFetchTimeout == 0 {
		cfg.Guardrails.PolicyFetchTimeout = DefaultPolicyFetchTimeout
	}

	if cfg.Audit.Backend == "" {
		cfg.Audit.Backend = DefaultAuditBackend
	}
	if cfg.Audit.SQLite.Path == "" {
		cfg.Audit.SQLite.Path = DefaultAuditSQLitePath
	}
	if cfg.Audit.SQLite.MaxOpenConns == 0 {
		cfg.Audit.SQLite.MaxOpenConns = DefaultAuditMaxOpenConns
	}
	if cfg.Audit.SQLite.MaxIdleConns == 0 {
		cfg.Audit.SQLite.MaxIdleConns = DefaultAuditMaxIdleConns
	}
	if cfg.Audit.SQLite.BusyTimeout == 0 {
		cfg.Audit.SQLite.BusyTimeout = DefaultAuditBusyTimeout
	}
	if cfg.Audit.WriteTimeout == 0 {
		cfg.Audit.WriteTimeout = DefaultAuditWriteTimeout
	}
	if cfg.Audit.MaxRetries == 0 {
		cfg.Audit.MaxRetries = DefaultAuditMaxRetries
	}
	if cfg.Audit.RetryBackoff == 0 {
		cfg.Audit.RetryBackoff = DefaultAuditRetryBackoff
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = DefaultRetentionDays
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultPruneSchedule
	}
	if cfg.Audit.Retention.ArchivePath == "" {
		cfg.Audit.Retention.ArchivePath = DefaultArchivePath
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// DefaultConfig returns a complete configuration with all defaults
// applied. Audit recording, WAL mode, and metrics are enabled.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Audit.Enabled = true
	cfg.Audit.SQLite.WALMode = true
	cfg.Telemetry.Metrics.Enabled = true
	ApplyDefaults(cfg)
	return cfg
}
