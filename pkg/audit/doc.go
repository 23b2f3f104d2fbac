// Package audit defines the immutable audit trail written for every
// guardrails evaluation: one append-only record per evaluation, carrying
// a content digest of the input (never the raw text), the decision, and
// the attributed policy when one exists.
//
// Subpackages:
//   - recorder:  builds and persists records (hashing, retry, attribution)
//   - storage:   SQLite and in-memory backends
//   - retention: scheduled pruning of aged records
//   - export:    JSON and CSV export
package audit
