package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"aegis-hq/aegis/pkg/policy"
)

var policyFlags struct {
	file   string
	format string
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage guardrails policies",
	Long: `Manage guardrails policies in the configured policy store.

Subcommands:
  list - List all policies
  add  - Add a policy from a YAML file

Examples:
  # List policies as a table
  aegis policy list

  # List policies as JSON
  aegis policy list --format json

  # Add a policy
  aegis policy add --file block-widgets.yaml`,
}

var policyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all policies",
	RunE:  listPolicies,
}

var policyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a policy from a YAML file",
	RunE:  addPolicy,
}

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.AddCommand(policyListCmd)
	policyCmd.AddCommand(policyAddCmd)

	policyListCmd.Flags().StringVar(&policyFlags.format, "format", "table", "output format (table, json)")
	policyAddCmd.Flags().StringVarP(&policyFlags.file, "file", "f", "", "policy YAML file (required)")
	_ = policyAddCmd.MarkFlagRequired("file")
}

func listPolicies(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := initLogging(cfg)
	if err != nil {
		return err
	}

	store, err := buildPolicyStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize policy store: %w", err)
	}
	defer store.Close()

	policies, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list policies: %w", err)
	}

	if policyFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(policies)
	}

	if len(policies) == 0 {
		fmt.Println("No policies found.")
		return nil
	}

	fmt.Printf("%-36s  %-24s  %-16s  %-12s  %s\n", "ID", "NAME", "TYPE", "AGENT", "ENABLED")
	for _, p := range policies {
		agent := p.AgentID
		if agent == "" {
			agent = "all"
		}
		fmt.Printf("%-36s  %-24s  %-16s  %-12s  %t\n", p.ID, p.Name, p.Type, agent, p.Enabled)
	}
	return nil
}

func addPolicy(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := initLogging(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(policyFlags.file)
	if err != nil {
		return fmt.Errorf("failed to read policy file: %w", err)
	}

	var p policy.Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("failed to parse policy file: %w", err)
	}

	store, err := buildPolicyStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize policy store: %w", err)
	}
	defer store.Close()

	if err := store.Create(cmd.Context(), &p); err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	fmt.Printf("✓ Policy %q created (id: %s)\n", p.Name, p.ID)
	return nil
}
