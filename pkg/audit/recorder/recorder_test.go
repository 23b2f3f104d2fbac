package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"aegis-hq/aegis/pkg/audit"
	"aegis-hq/aegis/pkg/audit/storage"
)

func TestRecorder_Record(t *testing.T) {
	store := storage.NewMemoryStorage()
	r := NewRecorder(store, nil)
	ctx := context.Background()

	err := r.Record(ctx, "agent-a", "pol-1", "DENIED", "buy a widget", 12*time.Millisecond)
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	records, err := store.Query(ctx, &audit.Query{})
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.ID == "" {
		t.Error("record has no id")
	}
	if rec.AgentID != "agent-a" {
		t.Errorf("AgentID = %s", rec.AgentID)
	}
	if rec.PolicyID != "pol-1" {
		t.Errorf("PolicyID = %s", rec.PolicyID)
	}
	if rec.Decision != "DENIED" {
		t.Errorf("Decision = %s", rec.Decision)
	}
	if rec.LatencyMS != 12 {
		t.Errorf("LatencyMS = %d", rec.LatencyMS)
	}
	if rec.InputHash != HashInput("buy a widget") {
		t.Errorf("InputHash = %s, not the digest of the input", rec.InputHash)
	}
	if rec.InputHash == "buy a widget" {
		t.Error("raw input text leaked into the record")
	}
}

func TestRecorder_UnattributedIsEmpty(t *testing.T) {
	store := storage.NewMemoryStorage()
	r := NewRecorder(store, nil)
	ctx := context.Background()

	if err := r.Record(ctx, "agent-a", "", "ALLOWED", "hello", time.Millisecond); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	records, _ := store.Query(ctx, &audit.Query{})
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	// No fabricated policy id: the field stays empty.
	if records[0].PolicyID != "" {
		t.Errorf("PolicyID = %q, want empty for unattributed record", records[0].PolicyID)
	}
}

func TestRecorder_Disabled(t *testing.T) {
	store := storage.NewMemoryStorage()
	cfg := DefaultConfig()
	cfg.Enabled = false
	r := NewRecorder(store, cfg)

	if err := r.Record(context.Background(), "agent-a", "", "ALLOWED", "hello", 0); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	count, _ := store.Count(context.Background(), &audit.Query{})
	if count != 0 {
		t.Errorf("disabled recorder wrote %d records", count)
	}
}

// failingStorage fails a fixed number of appends before succeeding.
type failingStorage struct {
	*storage.MemoryStorage
	failures int
	calls    int
}

func (s *failingStorage) Append(ctx context.Context, record *audit.Record) error {
	s.calls++
	if s.calls <= s.failures {
		return errors.New("disk on fire")
	}
	return s.MemoryStorage.Append(ctx, record)
}

func TestRecorder_RetriesTransientFailure(t *testing.T) {
	store := &failingStorage{MemoryStorage: storage.NewMemoryStorage(), failures: 2}
	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.RetryBackoff = time.Millisecond
	r := NewRecorder(store, cfg)

	if err := r.Record(context.Background(), "agent-a", "", "WARN", "x", 0); err != nil {
		t.Fatalf("Record() should succeed after retries: %v", err)
	}
	if store.calls != 3 {
		t.Errorf("expected 3 append attempts, got %d", store.calls)
	}
	count, _ := store.Count(context.Background(), &audit.Query{})
	if count != 1 {
		t.Errorf("expected exactly 1 record, got %d", count)
	}
}

func TestRecorder_SurfacesPersistentFailure(t *testing.T) {
	store := &failingStorage{MemoryStorage: storage.NewMemoryStorage(), failures: 100}
	cfg := DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryBackoff = time.Millisecond
	r := NewRecorder(store, cfg)

	err := r.Record(context.Background(), "agent-a", "pol-1", "DENIED", "x", 0)
	if err == nil {
		t.Fatal("expected error when storage keeps failing")
	}

	var recErr *audit.RecorderError
	if !errors.As(err, &recErr) {
		t.Fatalf("error type = %T, want *audit.RecorderError", err)
	}
	if recErr.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", recErr.Attempts)
	}
}

func TestHashInput(t *testing.T) {
	if HashInput("") != "" {
		t.Error("empty input should hash to empty string")
	}

	h1 := HashInput("hello world")
	h2 := HashInput("hello world")
	if h1 != h2 {
		t.Error("hash is not deterministic")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
	if h1 == HashInput("hello worlds") {
		t.Error("different inputs produced the same hash")
	}
}
