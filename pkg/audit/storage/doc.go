// Package storage provides audit.Storage backends: a SQLite backend for
// production and an in-memory backend for testing.
package storage
