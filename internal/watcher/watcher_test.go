package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestWatcher_CallbackOnWrite(t *testing.T) {
	dir := t.TempDir()
	docA := filepath.Join(dir, "a.txt")
	docB := filepath.Join(dir, "b.txt")
	if err := writeFile(docA, "first"); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(docB, "second"); err != nil {
		t.Fatal(err)
	}

	var changed []string
	var mu sync.Mutex
	onChange := func(path string) {
		mu.Lock()
		changed = append(changed, path)
		mu.Unlock()
	}

	w, err := New([]string{docA, docB}, onChange, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := writeFile(docA, "updated"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(changed) < 1 {
		t.Fatalf("expected at least one change callback, got %d", len(changed))
	}
	if filepath.Clean(changed[0]) != filepath.Clean(docA) {
		t.Errorf("changed path = %q, want %q", changed[0], docA)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	docA := filepath.Join(dir, "a.txt")
	if err := writeFile(docA, "first"); err != nil {
		t.Fatal(err)
	}

	var calls int
	var mu sync.Mutex
	w, err := New([]string{docA}, func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := writeFile(filepath.Join(dir, "other.txt"), "noise"); err != nil {
		t.Fatal(err)
	}
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("expected no callbacks for unrelated file, got %d", calls)
	}
}

func TestWatcher_DebounceCollapsesBurst(t *testing.T) {
	dir := t.TempDir()
	docA := filepath.Join(dir, "a.txt")
	if err := writeFile(docA, "first"); err != nil {
		t.Fatal(err)
	}

	var calls int
	var mu sync.Mutex
	w, err := New([]string{docA}, func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, WithDebounce(200*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := writeFile(docA, "burst"); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected exactly one debounced callback, got %d", calls)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	docA := filepath.Join(dir, "a.txt")
	if err := writeFile(docA, "first"); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{docA}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	w.Stop()
	w.Stop()
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0600)
}
