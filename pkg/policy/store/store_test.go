package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"aegis-hq/aegis/pkg/policy"
)

func TestMemoryStore_FetchEnabled(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	mustCreate(t, s, &policy.Policy{Name: "global", Type: policy.TypePII, Enabled: true})
	mustCreate(t, s, &policy.Policy{Name: "agent-a-only", Type: policy.TypeCustom, AgentID: "agent-a", Enabled: true, Rule: policy.RuleSpec{DenyKeywords: []string{"widget"}}})
	mustCreate(t, s, &policy.Policy{Name: "disabled", Type: policy.TypeContentSafety, Enabled: false})

	got, err := s.FetchEnabled(ctx, "agent-a")
	if err != nil {
		t.Fatalf("FetchEnabled() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FetchEnabled() returned %d policies, want 2", len(got))
	}
	// Insertion order preserved
	if got[0].Name != "global" || got[1].Name != "agent-a-only" {
		t.Errorf("order = [%s, %s], want [global, agent-a-only]", got[0].Name, got[1].Name)
	}

	got, err = s.FetchEnabled(ctx, "agent-b")
	if err != nil {
		t.Fatalf("FetchEnabled() error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "global" {
		t.Errorf("agent-b should see only the unscoped policy, got %d", len(got))
	}
}

func TestMemoryStore_CreateAssignsIdentity(t *testing.T) {
	s := NewMemoryStore()
	p := &policy.Policy{Name: "p", Type: policy.TypePII, Enabled: true}

	mustCreate(t, s, p)
	if p.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if p.CreatedAt.IsZero() {
		t.Error("Create() did not assign created_at")
	}
}

func TestMemoryStore_CreateValidates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.Create(ctx, &policy.Policy{Name: "", Type: policy.TypePII})
	if err == nil {
		t.Error("expected validation error for missing name")
	}

	err = s.Create(ctx, &policy.Policy{Name: "c", Type: policy.TypeCustom})
	if err == nil {
		t.Error("expected validation error for custom policy without keywords")
	}

	err = s.Create(ctx, &policy.Policy{Name: "x", Type: policy.Type("bogus")})
	if err == nil {
		t.Error("expected validation error for unknown type")
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultSQLiteConfig()
	cfg.Path = filepath.Join(t.TempDir(), "policies.db")

	s, err := NewSQLiteStore(cfg)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	defer s.Close()

	first := &policy.Policy{
		CustomerID: "cust-1",
		Name:       "block-widgets",
		AgentID:    "agent-a",
		Type:       policy.TypeCustom,
		Rule:       policy.RuleSpec{DenyKeywords: []string{"widget", "gadget"}},
		Enabled:    true,
		CreatedAt:  time.Now().UTC().Add(-time.Hour),
	}
	second := &policy.Policy{
		CustomerID: "cust-1",
		Name:       "pii-policy",
		Type:       policy.TypePII,
		Enabled:    true,
	}

	mustCreate(t, s, first)
	mustCreate(t, s, second)

	got, err := s.FetchEnabled(ctx, "agent-a")
	if err != nil {
		t.Fatalf("FetchEnabled() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FetchEnabled() returned %d policies, want 2", len(got))
	}
	// created_at order: first is older
	if got[0].Name != "block-widgets" {
		t.Errorf("got[0] = %s, want block-widgets", got[0].Name)
	}
	if len(got[0].Rule.DenyKeywords) != 2 || got[0].Rule.DenyKeywords[0] != "widget" {
		t.Errorf("rule spec round-trip failed: %+v", got[0].Rule)
	}

	// Agent-scoped policy invisible to other agents
	got, err = s.FetchEnabled(ctx, "agent-b")
	if err != nil {
		t.Fatalf("FetchEnabled() error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "pii-policy" {
		t.Errorf("agent-b: got %d policies", len(got))
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("List() returned %d policies, want 2", len(all))
	}
}

func TestFileStore_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")
	content := `policies:
  - id: pol-1
    customer_id: cust-1
    name: block-widgets
    policy_type: custom
    rule_spec:
      deny_keywords:
        - widget
    enabled: true
  - id: pol-2
    customer_id: cust-1
    name: pii-policy
    agent_id: agent-a
    policy_type: pii
    enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(path, nil)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	got, err := s.FetchEnabled(ctx, "agent-a")
	if err != nil {
		t.Fatalf("FetchEnabled() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("FetchEnabled() returned %d policies, want 2", len(got))
	}
	if got[0].ID != "pol-1" {
		t.Errorf("got[0].ID = %s, want pol-1 (file order)", got[0].ID)
	}

	got, err = s.FetchEnabled(ctx, "agent-b")
	if err != nil {
		t.Fatalf("FetchEnabled() error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("agent-b: got %d policies, want 1", len(got))
	}

	// File store rejects writes
	if err := s.Create(ctx, &policy.Policy{Name: "nope", Type: policy.TypePII}); err == nil {
		t.Error("Create() on file store should fail")
	}
}

func TestFileStore_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")
	write := func(body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("policies:\n  - id: pol-1\n    name: one\n    policy_type: pii\n    enabled: true\n")

	s, err := NewFileStore(path, nil)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer s.Close()

	write("policies:\n  - id: pol-1\n    name: one\n    policy_type: pii\n    enabled: true\n  - id: pol-2\n    name: two\n    policy_type: content_safety\n    enabled: true\n")
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("after reload: %d policies, want 2", len(got))
	}
}

func TestFileStore_AssignsStableIDs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policies.yaml")
	content := `policies:
  - customer_id: cust-1
    name: block-widgets
    policy_type: custom
    rule_spec:
      deny_keywords:
        - widget
    enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := NewFileStore(path, nil)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	defer s.Close()

	got, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("List() returned %d policies, want 1", len(got))
	}
	// A policy without an id in the file still gets one, so audit
	// records can attribute it instead of falling back to NULL.
	assigned := got[0].ID
	if assigned == "" {
		t.Fatal("file-sourced policy loaded with an empty id")
	}

	// Reloading must not change the id.
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	got, err = s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if got[0].ID != assigned {
		t.Errorf("ID after reload = %q, want %q", got[0].ID, assigned)
	}
}

func mustCreate(t *testing.T, s policy.Store, p *policy.Policy) {
	t.Helper()
	if err := s.Create(context.Background(), p); err != nil {
		t.Fatalf("Create(%s) error: %v", p.Name, err)
	}
}
