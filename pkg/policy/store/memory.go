package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"aegis-hq/aegis/pkg/policy"
)

// MemoryStore implements policy.Store using an in-memory slice.
// Insertion order is preserved, which gives FetchEnabled a stable
// iteration order. Intended for testing.
type MemoryStore struct {
	policies []*policy.Policy
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory policy store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FetchEnabled returns enabled policies applicable to the agent in
// insertion order.
func (s *MemoryStore) FetchEnabled(ctx context.Context, agentID string) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []*policy.Policy
	for _, p := range s.policies {
		if p.Enabled && p.AppliesTo(agentID) {
			cp := *p
			results = append(results, &cp)
		}
	}
	return results, nil
}

// Create persists a new policy.
func (s *MemoryStore) Create(ctx context.Context, p *policy.Policy) error {
	if err := policy.Validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.policies = append(s.policies, &cp)
	p.ID = cp.ID
	p.CreatedAt = cp.CreatedAt
	return nil
}

// List returns all policies in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*policy.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		cp := *p
		results = append(results, &cp)
	}
	return results, nil
}

// Close implements policy.Store.
func (s *MemoryStore) Close() error {
	return nil
}
