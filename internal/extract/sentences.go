package extract

import (
	"strings"
	"unicode"
)

// SplitSentences splits text into sentences on terminal punctuation and
// newlines. Resulting sentences keep their interior punctuation (including
// commas) and are trimmed; empties are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '.', '!', '?', '\n':
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// CleanSentence lowercases s, collapses whitespace, and strips characters
// outside letters, digits, spaces, and basic punctuation.
func CleanSentence(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	wasSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !wasSpace && b.Len() > 0 {
				b.WriteByte(' ')
				wasSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(",;'-", r):
			b.WriteRune(r)
			wasSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// CleanSentences applies CleanSentence to each sentence and drops the ones
// that come out empty.
func CleanSentences(sentences []string) []string {
	cleaned := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if c := CleanSentence(s); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	return cleaned
}
