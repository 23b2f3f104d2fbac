package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aegis",
	Short: "Aegis - guardrails service for agent prompts",
	Long: `Aegis evaluates agent prompts against built-in safety checks and
customer-defined policies before they reach a model.

It provides:
  - PII, content safety, and prompt injection detection
  - Custom deny-keyword policies, scoped per agent
  - A monotonic decision model (DENIED over WARN over ALLOWED)
  - An append-only, hashed audit trail with retention enforcement`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
