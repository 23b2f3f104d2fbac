package storage

import (
	"context"
	"sort"
	"sync"

	"aegis-hq/aegis/pkg/audit"
)

// MemoryStorage implements the audit.Storage interface using an
// in-memory slice. Intended for testing only.
type MemoryStorage struct {
	records []*audit.Record
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory audit backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Append persists one audit record to memory.
func (s *MemoryStorage) Append(ctx context.Context, record *audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *record
	s.records = append(s.records, &cp)
	return nil
}

// Query retrieves records matching the filters, newest first.
func (s *MemoryStorage) Query(ctx context.Context, query *audit.Query) ([]*audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*audit.Record
	for _, rec := range s.records {
		if matchesQuery(rec, query) {
			cp := *rec
			results = append(results, &cp)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp)
	})

	// Apply pagination
	start := query.Offset
	if start > len(results) {
		return nil, nil
	}
	results = results[start:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}

	return results, nil
}

// Count returns the number of records matching the filters.
func (s *MemoryStorage) Count(ctx context.Context, query *audit.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, rec := range s.records {
		if matchesQuery(rec, query) {
			count++
		}
	}
	return count, nil
}

// Delete removes records matching the filters.
func (s *MemoryStorage) Delete(ctx context.Context, query *audit.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		kept    []*audit.Record
		deleted int64
	)
	for _, rec := range s.records {
		if matchesQuery(rec, query) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return deleted, nil
}

// Close implements audit.Storage.
func (s *MemoryStorage) Close() error {
	return nil
}

// matchesQuery reports whether a record matches the query filters.
func matchesQuery(rec *audit.Record, query *audit.Query) bool {
	if query == nil {
		return true
	}
	if query.StartTime != nil && rec.Timestamp.Before(*query.StartTime) {
		return false
	}
	if query.EndTime != nil && rec.Timestamp.After(*query.EndTime) {
		return false
	}
	if query.AgentID != "" && rec.AgentID != query.AgentID {
		return false
	}
	if query.PolicyID != "" && rec.PolicyID != query.PolicyID {
		return false
	}
	if query.Decision != "" && rec.Decision != query.Decision {
		return false
	}
	return true
}
