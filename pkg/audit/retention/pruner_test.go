package retention

import (
	"context"
	"fmt"
	"testing"
	"time"

	"aegis-hq/aegis/pkg/audit"
	"aegis-hq/aegis/pkg/audit/storage"
)

func seedRecords(t *testing.T, store audit.Storage, ages ...time.Duration) {
	t.Helper()
	now := time.Now().UTC()
	for i, age := range ages {
		rec := &audit.Record{
			ID:        fmt.Sprintf("rec-%d", i),
			AgentID:   "agent",
			Timestamp: now.Add(-age),
			InputHash: "h",
			Decision:  "ALLOWED",
		}
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}
}

func TestPruner_PruneByAge(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store,
		100*24*time.Hour, // past retention
		95*24*time.Hour,  // past retention
		10*24*time.Hour,  // within retention
		time.Hour,        // within retention
	)

	pruner := NewPruner(store, &Config{RetentionDays: 90})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted %d, want 2", deleted)
	}

	count, err := store.Count(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("remaining count = %d, want 2", count)
	}
}

func TestPruner_PruneByCount(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store,
		5*time.Hour,
		4*time.Hour,
		3*time.Hour,
		2*time.Hour,
		time.Hour,
	)

	pruner := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 3})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted %d, want 2", deleted)
	}

	remaining, err := store.Query(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 3 {
		t.Fatalf("remaining = %d, want 3", len(remaining))
	}
	// Oldest records should be gone
	for _, rec := range remaining {
		if rec.ID == "rec-0" || rec.ID == "rec-1" {
			t.Errorf("oldest record %s survived count pruning", rec.ID)
		}
	}
}

func TestPruner_NoopWhenDisabled(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store, 365*24*time.Hour)

	pruner := NewPruner(store, &Config{RetentionDays: 0, MaxRecords: 0})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted %d, want 0", deleted)
	}
}

func TestPruner_ArchiveBeforeDelete(t *testing.T) {
	store := storage.NewMemoryStorage()
	seedRecords(t, store, 100*24*time.Hour, time.Hour)

	dir := t.TempDir()
	pruner := NewPruner(store, &Config{
		RetentionDays:       90,
		ArchiveBeforeDelete: true,
		ArchivePath:         dir,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted %d, want 1", deleted)
	}
}

func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	store := storage.NewMemoryStorage()
	pruner := NewPruner(store, &Config{RetentionDays: 90, PruneSchedule: ""})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if pruner.scheduler.IsRunning() {
		t.Error("scheduler running despite empty schedule")
	}
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	store := storage.NewMemoryStorage()
	pruner := NewPruner(store, &Config{RetentionDays: 90, PruneSchedule: "not a cron"})

	if err := pruner.Start(context.Background()); err == nil {
		t.Error("Start() accepted an invalid cron expression")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	store := storage.NewMemoryStorage()
	pruner := NewPruner(store, &Config{RetentionDays: 90, PruneSchedule: "0 3 * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !pruner.scheduler.IsRunning() {
		t.Error("scheduler not running after Start")
	}
	if pruner.NextPruning() == nil {
		t.Error("NextPruning() = nil for a scheduled pruner")
	}

	pruner.Stop()
	if pruner.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}
