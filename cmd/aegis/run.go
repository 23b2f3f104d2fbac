package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/audit/recorder"
	"aegis-hq/aegis/pkg/audit/retention"
	"aegis-hq/aegis/pkg/guardrails/engine"
	policystore "aegis-hq/aegis/pkg/policy/store"
	"aegis-hq/aegis/pkg/server"
	"aegis-hq/aegis/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the guardrails server",
	Long: `Start the guardrails server with the specified configuration.

The server exposes the evaluation endpoint, policy management, health,
and metrics, backed by the configured policy store and audit trail.

Examples:
  # Start with default config
  aegis run

  # Start with custom config
  aegis run --config /etc/aegis/config.yaml

  # Override listen address
  aegis run --listen 0.0.0.0:8085

  # Validate config without starting the server
  aegis run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := initLogging(cfg)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Aegis v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Policy store
	store, err := buildPolicyStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize policy store: %w", err)
	}
	defer store.Close()

	if fileStore, ok := store.(*policystore.FileStore); ok && cfg.Policy.File.Watch {
		if err := fileStore.Watch(ctx, cfg.Policy.File.DebounceInterval); err != nil {
			return fmt.Errorf("failed to start policy watcher: %w", err)
		}
		slog.Info("policy hot reload enabled", "path", cfg.Policy.File.Path)
	}
	fmt.Printf("✓ Policy store initialized (%s)\n", cfg.Policy.Backend)

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}

	// Decision engine
	engineCfg := engine.DefaultConfig()
	engineCfg.FailMode = engine.FailMode(cfg.Guardrails.FailMode)
	engineCfg.PolicyFetchTimeout = cfg.Guardrails.PolicyFetchTimeout

	eng, err := engine.New(store, engineCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize decision engine: %w", err)
	}
	if collector != nil {
		eng.WithMetrics(collector)
	}
	fmt.Printf("✓ Decision engine initialized (%s)\n", cfg.Guardrails.FailMode)

	// Audit trail
	var auditRecorder *recorder.Recorder
	var pruner *retention.Pruner
	if cfg.Audit.Enabled {
		auditStorage, err := buildAuditStorage(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize audit storage: %w", err)
		}
		defer auditStorage.Close()

		auditRecorder = recorder.NewRecorder(auditStorage, &recorder.Config{
			Enabled:      true,
			WriteTimeout: cfg.Audit.WriteTimeout,
			MaxRetries:   cfg.Audit.MaxRetries,
			RetryBackoff: cfg.Audit.RetryBackoff,
		})
		if collector != nil {
			auditRecorder.WithMetrics(collector)
		}

		if cfg.Audit.Retention.Schedule != "" {
			pruner = retention.NewPruner(auditStorage, &retention.Config{
				RetentionDays:       cfg.Audit.Retention.Days,
				PruneSchedule:       cfg.Audit.Retention.Schedule,
				ArchiveBeforeDelete: cfg.Audit.Retention.ArchiveBeforeDelete,
				ArchivePath:         cfg.Audit.Retention.ArchivePath,
				MaxRecords:          cfg.Audit.Retention.MaxRecords,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
			}
		}

		fmt.Printf("✓ Audit trail initialized (%s)\n", cfg.Audit.Backend)
	}

	srv := server.NewServer(&cfg.Server, &cfg.Telemetry.Metrics, eng, auditRecorder, store, collector)

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	// Blocks until signal, context cancellation, or server error.
	return srv.Start(ctx)
}
