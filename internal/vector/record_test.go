package vector

import (
	"math"
	"testing"
)

func TestParseRecord(t *testing.T) {
	rec, ok := ParseRecord(`"1: hello","0.1","0.2","0.3"`, nil)
	if !ok {
		t.Fatal("expected record")
	}
	if rec.Index != "1" {
		t.Errorf("Index=%q", rec.Index)
	}
	if rec.Text != "hello" {
		t.Errorf("Text=%q", rec.Text)
	}
	if len(rec.Vector) != 3 || rec.Vector[0] != 0.1 || rec.Vector[2] != 0.3 {
		t.Errorf("Vector=%v", rec.Vector)
	}
}

func TestParseRecord_EmbeddedCommas(t *testing.T) {
	rec, ok := ParseRecord(`"1: hello, world","0.1","0.2","0.3"`, nil)
	if !ok {
		t.Fatal("expected record")
	}
	if rec.Index != "1" {
		t.Errorf("Index=%q", rec.Index)
	}
	if rec.Text != "hello, world" {
		t.Errorf("Text=%q", rec.Text)
	}
	if len(rec.Vector) != 3 {
		t.Errorf("Vector=%v", rec.Vector)
	}
}

func TestParseRecord_NoColon(t *testing.T) {
	rec, ok := ParseRecord(`"just a sentence","0.5","0.5"`, nil)
	if !ok {
		t.Fatal("expected record")
	}
	if rec.Index != UnknownIndex {
		t.Errorf("Index=%q, want %q", rec.Index, UnknownIndex)
	}
	if rec.Text != "just a sentence" {
		t.Errorf("Text=%q", rec.Text)
	}
}

func TestParseRecord_CommaJoinedVectorField(t *testing.T) {
	// The embedding stage writes all components inside one quoted field; the
	// naive split still recovers each component.
	rec, ok := ParseRecord(`"2: second sentence","0.25,0.5,0.75"`, nil)
	if !ok {
		t.Fatal("expected record")
	}
	if len(rec.Vector) != 3 {
		t.Fatalf("Vector=%v", rec.Vector)
	}
	if math.Abs(rec.Vector[1]-0.5) > 1e-12 {
		t.Errorf("Vector[1]=%v", rec.Vector[1])
	}
}

func TestParseRecord_DropsBadNumericField(t *testing.T) {
	rec, ok := ParseRecord(`"1: text","0.1","oops","0.3"`, nil)
	if !ok {
		t.Fatal("expected record")
	}
	// "oops" sits after the vector has started: dropped, not an error.
	if len(rec.Vector) != 2 {
		t.Errorf("Vector=%v", rec.Vector)
	}
}

func TestParseRecord_Skips(t *testing.T) {
	cases := []string{
		``,
		`"lonely field"`,
		`"3: ","0.1"`,        // empty text
		`"4: text","nonum"`,  // zero vector components
	}
	for _, line := range cases {
		if _, ok := ParseRecord(line, nil); ok {
			t.Errorf("line %q should be skipped", line)
		}
	}
}
