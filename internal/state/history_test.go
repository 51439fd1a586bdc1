package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), Config{
		Path: filepath.Join(t.TempDir(), "state.db"),
	})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)

	store, err := NewHistoryStore(ctx, db)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	started := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	first := ReleaseRecord{
		Image:      "docker.psi.ch:5000/cam_server",
		Version:    "1.0.0",
		Steps:      "build=ok tag=ok push:1.0.0=ok push:latest=ok",
		OK:         true,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
	}
	second := first
	second.Version = "1.1.0"
	second.Steps = "build=ok tag=ok push:1.1.0=failed push:latest=ok"
	second.OK = false

	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, second); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(got))
	}

	// newest first
	if got[0].Version != "1.1.0" || got[0].OK {
		t.Fatalf("unexpected newest record: %+v", got[0])
	}
	if got[1].Version != "1.0.0" || !got[1].OK {
		t.Fatalf("unexpected oldest record: %+v", got[1])
	}
	if !got[1].StartedAt.Equal(started) {
		t.Fatalf("StartedAt = %v, want %v", got[1].StartedAt, started)
	}
}

func TestRecentLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)

	store, err := NewHistoryStore(ctx, db)
	if err != nil {
		t.Fatalf("NewHistoryStore failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		rec := ReleaseRecord{
			Image:      "docker.psi.ch:5000/cam_server",
			Version:    "1.0.0",
			Steps:      "build=ok",
			OK:         true,
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
		}
		if err := store.Record(ctx, rec); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent returned %d records, want 3", len(got))
	}
}
