// Aegis is a guardrails service for agent prompts.
//
// It evaluates prompt text against built-in safety checks and
// customer-defined policies, returning an ALLOWED, WARN, or DENIED
// decision, and records a hashed audit trail of every evaluation.
//
// Usage:
//
//	# Start the server with default configuration
//	aegis run
//
//	# Start with a custom configuration file
//	aegis run --config /etc/aegis/config.yaml
//
//	# Manage policies
//	aegis policy list
//	aegis policy add --file policy.yaml
//
//	# Inspect the audit trail
//	aegis audit query --agent-id <id> --decision DENIED
//	aegis audit export --format csv --output audit.csv
//	aegis audit prune
//
//	# Show version information
//	aegis version
package main

func main() {
	Execute()
}
