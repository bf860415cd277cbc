package vector

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeVectorFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectors.csv")
	if err := os.WriteFile(path, []byte(lines), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadStore(t *testing.T) {
	path := writeVectorFile(t, `"1: first sentence","1.0","2.0","3.0"
"2: second, with comma","0.0","1.0","0.0"
not a parsable line
`)
	store, err := LoadStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if store.Len() != 2 {
		t.Fatalf("Len=%d, want 2", store.Len())
	}
	rec, ok := store.Get("1")
	if !ok {
		t.Fatal("record 1 missing")
	}
	// Vectors are normalized at load time.
	var sum float64
	for _, v := range rec.Vector {
		sum += v * v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("record 1 not unit length: %v", sum)
	}
	if rec2, _ := store.Get("2"); rec2.Text != "second, with comma" {
		t.Errorf("Text=%q", rec2.Text)
	}
}

func TestLoadStore_LastWriteWins(t *testing.T) {
	path := writeVectorFile(t, `"1: old","1.0","0.0"
"1: new","0.0","1.0"
`)
	store, err := LoadStore(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Fatalf("Len=%d", store.Len())
	}
	rec, _ := store.Get("1")
	if rec.Text != "new" {
		t.Errorf("Text=%q, want later line to win", rec.Text)
	}
}

func TestLoadStore_EmptyPath(t *testing.T) {
	if _, err := LoadStore("", nil); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("err=%v, want ErrEmptyPath", err)
	}
}

func TestLoadStore_MissingFile(t *testing.T) {
	if _, err := LoadStore(filepath.Join(t.TempDir(), "missing.csv"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadStore_NoValidLines(t *testing.T) {
	path := writeVectorFile(t, "garbage\nmore garbage\n")
	if _, err := LoadStore(path, nil); !errors.Is(err, ErrEmptyStore) {
		t.Errorf("err=%v, want ErrEmptyStore", err)
	}
}

func TestValidateUniformDimension(t *testing.T) {
	store, err := NewStore([]*Record{
		{Index: "1", Text: "a", Vector: []float64{1, 0, 0}},
		{Index: "2", Text: "b", Vector: []float64{0, 1, 0}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.ValidateUniformDimension(); err != nil {
		t.Errorf("uniform store should validate: %v", err)
	}

	mixed, err := NewStore([]*Record{
		{Index: "1", Text: "a", Vector: []float64{1, 0, 0}},
		{Index: "2", Text: "b", Vector: []float64{0, 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = mixed.ValidateUniformDimension()
	var mismatch *DimensionMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err=%v, want DimensionMismatchError", err)
	}
}

func TestSortedIndices(t *testing.T) {
	store, _ := NewStore([]*Record{
		{Index: "b", Text: "x", Vector: []float64{1}},
		{Index: "a", Text: "y", Vector: []float64{1}},
		{Index: "c", Text: "z", Vector: []float64{1}},
	})
	got := store.SortedIndices()
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedIndices=%v", got)
		}
	}
}
