package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/niteru/internal/models"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveGetRun(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	run := &models.Run{
		ID:         "run-1",
		DocA:       "/docs/a.txt",
		DocB:       "/docs/b.pdf",
		Similarity: 0.8123,
		Pairs:      42,
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.DocA != run.DocA || got.DocB != run.DocB {
		t.Errorf("got %+v", got)
	}
	if got.Similarity != run.Similarity || got.Pairs != run.Pairs {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStorage(t)
	if _, err := s.GetRun(context.Background(), "missing"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestListCountRuns(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		run := &models.Run{
			ID:        string(rune('a' + i)),
			DocA:      "a",
			DocB:      "b",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.SaveRun(ctx, run); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := s.ListRuns(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("len=%d", len(runs))
	}
	// Newest first.
	if runs[0].ID != "c" {
		t.Errorf("first run=%s", runs[0].ID)
	}
	n, err := s.CountRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("count=%d", n)
	}
}
