package main

import (
	"fmt"
	"log/slog"

	"aegis-hq/aegis/pkg/audit"
	auditstorage "aegis-hq/aegis/pkg/audit/storage"
	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/policy"
	policystore "aegis-hq/aegis/pkg/policy/store"
	"aegis-hq/aegis/pkg/telemetry/logging"
)

// loadConfig loads the configuration file named by the global --config
// flag, with AEGIS_* environment overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// initLogging installs the configured logger as the slog default.
func initLogging(cfg *config.Config) (*slog.Logger, error) {
	return logging.Init(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
}

// buildPolicyStore constructs the policy store selected by the
// configuration. File stores are loaded but not yet watching.
func buildPolicyStore(cfg *config.Config, logger *slog.Logger) (policy.Store, error) {
	switch cfg.Policy.Backend {
	case "memory":
		return policystore.NewMemoryStore(), nil
	case "sqlite":
		storeCfg := policystore.DefaultSQLiteConfig()
		storeCfg.Path = cfg.Policy.SQLite.Path
		return policystore.NewSQLiteStore(storeCfg)
	case "file":
		return policystore.NewFileStore(cfg.Policy.File.Path, logger)
	default:
		return nil, fmt.Errorf("unsupported policy backend: %s", cfg.Policy.Backend)
	}
}

// buildAuditStorage constructs the audit storage backend selected by
// the configuration.
func buildAuditStorage(cfg *config.Config) (audit.Storage, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		return auditstorage.NewSQLiteStorage(&auditstorage.SQLiteConfig{
			Path:         cfg.Audit.SQLite.Path,
			MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
			WALMode:      cfg.Audit.SQLite.WALMode,
			BusyTimeout:  cfg.Audit.SQLite.BusyTimeout,
		})
	case "memory":
		return auditstorage.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s", cfg.Audit.Backend)
	}
}
