// Package vector provides the persisted vector file parser and the
// per-document vector store.
package vector

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// UnknownIndex is the sentinel index assigned when a line's text field
// carries no "index:" prefix.
const UnknownIndex = "unknown"

// Record is one parsed line of a persisted vector file.
type Record struct {
	Index  string
	Text   string
	Vector []float64
}

// ParseRecord recovers (index, text, vector) from one raw line of the form
// `"<index>: <text>","v1","v2",...`. The quoted text field may contain
// unescaped commas, so the line is split naively first and non-numeric
// fragments are re-joined to the text until the first field that parses as a
// number. Returns (nil, false) for lines that cannot yield a record: fewer
// than two fields, empty text, or zero vector components. Parsing is
// best-effort recovery, never an error; a trailing field that fails numeric
// parsing after the vector has started is dropped with a warning.
// logger may be nil.
func ParseRecord(line string, logger *zap.Logger) (*Record, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return nil, false
	}

	first := trimQuotes(fields[0])
	index := UnknownIndex
	text := first
	if colon := strings.Index(first, ":"); colon >= 0 {
		index = strings.TrimSpace(first[:colon])
		text = strings.TrimSpace(first[colon+1:])
	}

	// Re-attach text fragments produced by the naive split: every field that
	// does not parse as a number still belongs to the text.
	i := 1
	for ; i < len(fields); i++ {
		if _, err := parseFloatField(fields[i]); err == nil {
			break
		}
		text = text + "," + trimQuotes(fields[i])
	}

	vec := make([]float64, 0, len(fields)-i)
	for ; i < len(fields); i++ {
		v, err := parseFloatField(fields[i])
		if err != nil {
			if logger != nil {
				logger.Warn("dropping unparsable vector component",
					zap.String("index", index),
					zap.String("field", fields[i]),
				)
			}
			continue
		}
		vec = append(vec, v)
	}

	if strings.TrimSpace(text) == "" || len(vec) == 0 {
		return nil, false
	}
	return &Record{Index: index, Text: text, Vector: vec}, true
}

// trimQuotes strips surrounding double quotes without touching interior
// spacing, so re-joined text fragments keep their original form.
func trimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

func parseFloatField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(trimQuotes(strings.TrimSpace(s))), 64)
}
