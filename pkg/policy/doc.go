// Package policy defines the customer-configured policy model and the
// Store interface the decision engine reads policies through.
//
// Policies are immutable from the engine's perspective: the engine only
// ever fetches a snapshot of enabled policies at the start of an
// evaluation. Creation and listing are simple data-access operations on
// the Store with no evaluation semantics attached.
//
// Store implementations live in the store subpackage (SQLite, in-memory,
// and a YAML file source with hot reload).
package policy
