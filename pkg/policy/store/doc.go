// Package store provides policy.Store backends.
//
// Three backends are available:
//   - SQLiteStore: the production backend, using the pure-Go
//     modernc.org/sqlite driver
//   - MemoryStore: an in-memory backend for testing
//   - FileStore: a read-only YAML source for deployments without a
//     database, with fsnotify-based hot reload
package store
