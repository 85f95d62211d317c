package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"bookbinder/internal/conversion"
	"bookbinder/internal/history"
	"bookbinder/internal/testsupport"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	return testsupport.MustOpenHistory(t, testsupport.NewConfig(t))
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	tick := 0
	store.SetClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	})

	valid := false
	ok := conversion.Result{
		Success:         true,
		Title:           "Dune",
		SourceDir:       "/books/dune",
		OutputPath:      "/out/Dune.m4b",
		DurationSeconds: 3661,
		SizeBytes:       1536,
		Encoder:         "aac",
		Chapters:        12,
		Compatible:      &valid,
		Warning:         "extradata mismatch",
		Elapsed:         2500 * time.Millisecond,
	}
	failed := conversion.Result{
		Title:     "empty",
		SourceDir: "/books/empty",
		Error:     "No MP3 files found in '/books/empty'",
	}
	if err := store.Record(ctx, "run-1", ok); err != nil {
		t.Fatalf("Record success: %v", err)
	}
	if err := store.Record(ctx, "run-1", failed); err != nil {
		t.Fatalf("Record failure: %v", err)
	}

	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	newest := entries[0]
	if newest.Result.Success || newest.Result.Error != failed.Error || newest.Result.Title != "empty" {
		t.Fatalf("unexpected newest entry: %+v", newest)
	}
	if newest.Result.Compatible != nil {
		t.Fatalf("expected nil compatibility for failed job, got %v", *newest.Result.Compatible)
	}

	oldest := entries[1]
	if oldest.RunID != "run-1" {
		t.Fatalf("run id = %q", oldest.RunID)
	}
	if !oldest.CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("created_at = %v", oldest.CreatedAt)
	}
	got := oldest.Result
	if !got.Success || got.OutputPath != ok.OutputPath || got.SizeBytes != 1536 || got.Chapters != 12 {
		t.Fatalf("unexpected stored result: %+v", got)
	}
	if got.DurationSeconds != 3661 || got.Encoder != "aac" || got.Warning != ok.Warning {
		t.Fatalf("unexpected stored result: %+v", got)
	}
	if got.Elapsed != 2500*time.Millisecond {
		t.Fatalf("elapsed = %v", got.Elapsed)
	}
	if got.Compatible == nil || *got.Compatible {
		t.Fatalf("expected compatibility=false, got %v", got.Compatible)
	}
}

func TestListLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		if err := store.Record(ctx, "run", conversion.Result{Title: title, SourceDir: "/" + title}); err != nil {
			t.Fatalf("Record %s: %v", title, err)
		}
	}

	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Result.Title != "c" || entries[1].Result.Title != "b" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Record(ctx, "run", conversion.Result{Title: "kept", SourceDir: "/kept"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	entries, err := reopened.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Result.Title != "kept" {
		t.Fatalf("unexpected entries after reopen: %+v", entries)
	}
}

func TestPrune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	store.SetClock(func() time.Time { return old })
	if err := store.Record(ctx, "run", conversion.Result{Title: "old"}); err != nil {
		t.Fatalf("Record old: %v", err)
	}
	store.SetClock(func() time.Time { return recent })
	if err := store.Record(ctx, "run", conversion.Result{Title: "recent"}); err != nil {
		t.Fatalf("Record recent: %v", err)
	}

	removed, err := store.Prune(ctx, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	entries, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Result.Title != "recent" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStoreSatisfiesRecorder(t *testing.T) {
	var _ conversion.Recorder = openStore(t)
}
