package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Policy     PolicyConfig     `yaml:"policy"`
	Guardrails GuardrailsConfig `yaml:"guardrails"`
	Audit      AuditConfig      `yaml:"audit"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address to listen on (e.g., ":8085").
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes limits request header size.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PolicyConfig contains policy store settings.
type PolicyConfig struct {
	// Backend selects the policy store: "memory", "sqlite", or "file".
	Backend string `yaml:"backend"`

	// SQLite configures the SQLite policy backend.
	SQLite PolicySQLiteConfig `yaml:"sqlite"`

	// File configures the file policy backend.
	File PolicyFileConfig `yaml:"file"`
}

// PolicySQLiteConfig configures the SQLite policy backend.
type PolicySQLiteConfig struct {
	Path string `yaml:"path"`
}

// PolicyFileConfig configures the YAML file policy backend.
type PolicyFileConfig struct {
	// Path is a YAML file or a directory of YAML files.
	Path string `yaml:"path"`

	// Watch enables hot reload on file changes.
	Watch bool `yaml:"watch"`

	// DebounceInterval coalesces rapid file change events.
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// GuardrailsConfig contains decision engine settings.
type GuardrailsConfig struct {
	// FailMode is "fail-open" or "fail-closed".
	FailMode string `yaml:"fail_mode"`

	// PolicyFetchTimeout bounds the policy store fetch per evaluation.
	PolicyFetchTimeout time.Duration `yaml:"policy_fetch_timeout"`
}

// AuditConfig contains audit trail settings.
type AuditConfig struct {
	// Enabled turns audit recording on or off.
	Enabled bool `yaml:"enabled"`

	// Backend selects the audit storage: "sqlite" or "memory".
	Backend string `yaml:"backend"`

	// SQLite configures the SQLite audit backend.
	SQLite AuditSQLiteConfig `yaml:"sqlite"`

	// WriteTimeout bounds a single audit write attempt.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// MaxRetries is the number of retries after a failed write.
	MaxRetries int `yaml:"max_retries"`

	// RetryBackoff is the delay between write retries.
	RetryBackoff time.Duration `yaml:"retry_backoff"`

	// Retention configures automatic pruning of old records.
	Retention RetentionConfig `yaml:"retention"`
}

// AuditSQLiteConfig configures the SQLite audit backend.
type AuditSQLiteConfig struct {
	Path         string        `yaml:"path"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	WALMode      bool          `yaml:"wal_mode"`
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig configures audit record retention.
type RetentionConfig struct {
	// Days is the retention period; 0 disables age-based pruning.
	Days int `yaml:"days"`

	// MaxRecords caps the total record count; 0 means unlimited.
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is a cron expression; empty disables scheduled pruning.
	Schedule string `yaml:"schedule"`

	// ArchiveBeforeDelete exports records to JSON before deletion.
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the archive output directory.
	ArchivePath string `yaml:"archive_path"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint.
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	Path string `yaml:"path"`
}
