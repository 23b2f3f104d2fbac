package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// ErrInvalidConfig is the sentinel wrapped by all validation errors.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration for inconsistencies. It is called
// after defaults are applied, so zero values for required fields are
// reported as errors rather than silently defaulted.
func Validate(cfg *Config) error {
	if cfg.Server.ListenAddress == "" {
		return fmt.Errorf("%w: server.listen_address is required", ErrInvalidConfig)
	}
	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must be positive", ErrInvalidConfig)
	}

	switch cfg.Policy.Backend {
	case "memory":
	case "sqlite":
		if cfg.Policy.SQLite.Path == "" {
			return fmt.Errorf("%w: policy.sqlite.path is required for the sqlite backend", ErrInvalidConfig)
		}
	case "file":
		if cfg.Policy.File.Path == "" {
			return fmt.Errorf("%w: policy.file.path is required for the file backend", ErrInvalidConfig)
		}
		if cfg.Policy.File.Watch && cfg.Policy.File.DebounceInterval <= 0 {
			return fmt.Errorf("%w: policy.file.debounce_interval must be positive when watch is enabled", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown policy backend %q", ErrInvalidConfig, cfg.Policy.Backend)
	}

	switch cfg.Guardrails.FailMode {
	case "fail-open", "fail-closed":
	default:
		return fmt.Errorf("%w: guardrails.fail_mode must be fail-open or fail-closed, got %q", ErrInvalidConfig, cfg.Guardrails.FailMode)
	}
	if cfg.Guardrails.PolicyFetchTimeout <= 0 {
		return fmt.Errorf("%w: guardrails.policy_fetch_timeout must be positive", ErrInvalidConfig)
	}

	switch cfg.Audit.Backend {
	case "memory":
	case "sqlite":
		if cfg.Audit.SQLite.Path == "" {
			return fmt.Errorf("%w: audit.sqlite.path is required for the sqlite backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown audit backend %q", ErrInvalidConfig, cfg.Audit.Backend)
	}
	if cfg.Audit.MaxRetries < 0 {
		return fmt.Errorf("%w: audit.max_retries cannot be negative", ErrInvalidConfig)
	}
	if cfg.Audit.Retention.Days < 0 {
		return fmt.Errorf("%w: audit.retention.days cannot be negative", ErrInvalidConfig)
	}
	if cfg.Audit.Retention.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.Retention.Schedule); err != nil {
			return fmt.Errorf("%w: audit.retention.schedule is not a valid cron expression: %v", ErrInvalidConfig, err)
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, cfg.Telemetry.Logging.Level)
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, cfg.Telemetry.Logging.Format)
	}
	if cfg.Telemetry.Metrics.Enabled && cfg.Telemetry.Metrics.Path == "" {
		return fmt.Errorf("%w: telemetry.metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}

	return nil
}
