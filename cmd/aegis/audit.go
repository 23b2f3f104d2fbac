package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"aegis-hq/aegis/pkg/audit"
	"aegis-hq/aegis/pkg/audit/export"
	"aegis-hq/aegis/pkg/audit/retention"
)

var auditFlags struct {
	agentID  string
	policyID string
	decision string
	since    string
	until    string
	limit    int
	format   string
	output   string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and maintain the audit trail",
	Long: `Inspect and maintain the append-only audit trail.

Subcommands:
  query  - Query audit records with filters
  export - Export audit records to JSON or CSV
  prune  - Run retention pruning once

Examples:
  # Show the last 20 denied evaluations for an agent
  aegis audit query --agent-id agent-1 --decision DENIED --limit 20

  # Export all records since a timestamp to CSV
  aegis audit export --since 2026-08-01T00:00:00Z --format csv --output audit.csv

  # Enforce retention immediately
  aegis audit prune`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit records",
	RunE:  queryAudit,
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit records to JSON or CSV",
	RunE:  exportAudit,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Run retention pruning once",
	RunE:  pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd)
	auditCmd.AddCommand(auditExportCmd)
	auditCmd.AddCommand(auditPruneCmd)

	for _, cmd := range []*cobra.Command{auditQueryCmd, auditExportCmd} {
		cmd.Flags().StringVar(&auditFlags.agentID, "agent-id", "", "filter by agent id")
		cmd.Flags().StringVar(&auditFlags.policyID, "policy-id", "", "filter by attributed policy id")
		cmd.Flags().StringVar(&auditFlags.decision, "decision", "", "filter by decision (ALLOWED, WARN, DENIED)")
		cmd.Flags().StringVar(&auditFlags.since, "since", "", "start time (RFC 3339)")
		cmd.Flags().StringVar(&auditFlags.until, "until", "", "end time (RFC 3339)")
		cmd.Flags().IntVar(&auditFlags.limit, "limit", 0, "maximum records (0 = unlimited)")
	}

	auditExportCmd.Flags().StringVar(&auditFlags.format, "format", "json", "export format (json, csv)")
	auditExportCmd.Flags().StringVarP(&auditFlags.output, "output", "o", "", "output file (default stdout)")
}

// buildAuditQuery converts the shared filter flags into a query.
func buildAuditQuery() (*audit.Query, error) {
	query := &audit.Query{
		AgentID:  auditFlags.agentID,
		PolicyID: auditFlags.policyID,
		Decision: auditFlags.decision,
		Limit:    auditFlags.limit,
	}

	if auditFlags.since != "" {
		t, err := time.Parse(time.RFC3339, auditFlags.since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since value: %w", err)
		}
		query.StartTime = &t
	}
	if auditFlags.until != "" {
		t, err := time.Parse(time.RFC3339, auditFlags.until)
		if err != nil {
			return nil, fmt.Errorf("invalid --until value: %w", err)
		}
		query.EndTime = &t
	}

	return query, nil
}

func queryAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	storage, err := buildAuditStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize audit storage: %w", err)
	}
	defer storage.Close()

	query, err := buildAuditQuery()
	if err != nil {
		return err
	}

	records, err := storage.Query(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No audit records found.")
		return nil
	}

	fmt.Printf("%-36s  %-12s  %-8s  %-20s  %s\n", "ID", "AGENT", "DECISION", "TIMESTAMP", "POLICY")
	for _, rec := range records {
		policyID := rec.PolicyID
		if policyID == "" {
			policyID = "-"
		}
		fmt.Printf("%-36s  %-12s  %-8s  %-20s  %s\n",
			rec.ID, rec.AgentID, rec.Decision, rec.Timestamp.Format(time.RFC3339), policyID)
	}
	fmt.Printf("\n%d record(s)\n", len(records))
	return nil
}

func exportAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	storage, err := buildAuditStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize audit storage: %w", err)
	}
	defer storage.Close()

	query, err := buildAuditQuery()
	if err != nil {
		return err
	}

	records, err := storage.Query(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	var out io.Writer = os.Stdout
	if auditFlags.output != "" {
		f, err := os.Create(auditFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch auditFlags.format {
	case "json":
		err = export.NewJSONExporter(true).Export(cmd.Context(), records, out)
	case "csv":
		err = export.NewCSVExporter(true).Export(cmd.Context(), records, out)
	default:
		return fmt.Errorf("unsupported export format: %s", auditFlags.format)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if auditFlags.output != "" {
		fmt.Printf("✓ Exported %d record(s) to %s\n", len(records), auditFlags.output)
	}
	return nil
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := initLogging(cfg); err != nil {
		return err
	}

	storage, err := buildAuditStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize audit storage: %w", err)
	}
	defer storage.Close()

	pruner := retention.NewPruner(storage, &retention.Config{
		RetentionDays:       cfg.Audit.Retention.Days,
		ArchiveBeforeDelete: cfg.Audit.Retention.ArchiveBeforeDelete,
		ArchivePath:         cfg.Audit.Retention.ArchivePath,
		MaxRecords:          cfg.Audit.Retention.MaxRecords,
	})

	deleted, err := pruner.Prune(cmd.Context())
	if err != nil {
		return fmt.Errorf("pruning failed: %w", err)
	}

	fmt.Printf("✓ Pruned %d record(s)\n", deleted)
	return nil
}
