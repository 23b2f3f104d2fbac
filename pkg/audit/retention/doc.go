// Package retention enforces retention policies on audit records.
// A Pruner deletes records past the retention window or beyond the
// configured record count, optionally archiving them to JSON first,
// and a cron-driven Scheduler runs pruning automatically.
package retention
