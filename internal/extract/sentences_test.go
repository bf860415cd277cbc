package extract

import "testing"

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("One. Two! Three?\nFour")
	want := []string{"One", "Two", "Three", "Four"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentences_Empty(t *testing.T) {
	if got := SplitSentences("  \n\n . ! "); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestCleanSentence(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Hello,   World", "hello, world"},
		{"Keep, commas; and-dashes", "keep, commas; and-dashes"},
		{"strip: colons & *stars*", "strip colons stars"},
		{"  \t ", ""},
	}
	for _, c := range cases {
		if got := CleanSentence(c.in); got != c.want {
			t.Errorf("CleanSentence(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCleanSentences_DropsEmpty(t *testing.T) {
	got := CleanSentences([]string{"Real", "***", ""})
	if len(got) != 1 || got[0] != "real" {
		t.Errorf("got %v", got)
	}
}
