package vector

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hyperjump/niteru/pkg/utils"
	"go.uber.org/zap"
)

// ErrEmptyPath is returned when a store is loaded from an empty path.
var ErrEmptyPath = errors.New("vector file path is empty")

// ErrEmptyStore is returned when no parsable records survive loading.
var ErrEmptyStore = errors.New("vector store has no records")

// DimensionMismatchError reports two records with differing vector lengths.
type DimensionMismatchError struct {
	Index string
	Got   int
	Want  int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch at index %q: got %d, expected %d", e.Index, e.Got, e.Want)
}

// Store maps index -> Record for one document. Vectors are L2-normalized at
// load time; the store is never mutated after construction.
type Store struct {
	records map[string]*Record
}

// LoadStore reads path line by line, parses each with ParseRecord, normalizes
// accepted vectors to unit length, and keys them by index. Later lines with a
// colliding index overwrite earlier ones. Unparsable lines are dropped.
// Fails with ErrEmptyPath for an empty path and ErrEmptyStore when zero
// records survive. logger may be nil.
func LoadStore(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vector file: %w", err)
	}
	defer f.Close()

	records := make(map[string]*Record)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	dropped := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, ok := ParseRecord(line, logger)
		if !ok {
			dropped++
			continue
		}
		rec.Vector = utils.NormalizeL2(rec.Vector)
		records[rec.Index] = rec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vector file: %w", err)
	}
	if dropped > 0 && logger != nil {
		logger.Warn("dropped unparsable vector lines",
			zap.String("path", path),
			zap.Int("dropped", dropped),
		)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyStore)
	}
	return &Store{records: records}, nil
}

// NewStore builds a store directly from records (for tests and in-memory use).
// Vectors are normalized; duplicate indices follow last write wins.
func NewStore(records []*Record) (*Store, error) {
	m := make(map[string]*Record, len(records))
	for _, rec := range records {
		r := *rec
		r.Vector = utils.NormalizeL2(r.Vector)
		m[r.Index] = &r
	}
	if len(m) == 0 {
		return nil, ErrEmptyStore
	}
	return &Store{records: m}, nil
}

// ValidateUniformDimension fails with a DimensionMismatchError if any two
// records differ in vector length. Must be called before similarity
// computation; loading a store does not validate automatically.
func (s *Store) ValidateUniformDimension() error {
	want := -1
	for _, idx := range s.SortedIndices() {
		rec := s.records[idx]
		if want < 0 {
			want = len(rec.Vector)
			continue
		}
		if len(rec.Vector) != want {
			return &DimensionMismatchError{Index: rec.Index, Got: len(rec.Vector), Want: want}
		}
	}
	return nil
}

// Get returns the record for index, if present.
func (s *Store) Get(index string) (*Record, bool) {
	rec, ok := s.records[index]
	return rec, ok
}

// SortedIndices returns all indices in lexicographically sorted order.
func (s *Store) SortedIndices() []string {
	indices := make([]string, 0, len(s.records))
	for idx := range s.records {
		indices = append(indices, idx)
	}
	sort.Strings(indices)
	return indices
}

// Records returns the underlying index -> record mapping. Callers must not
// mutate it.
func (s *Store) Records() map[string]*Record {
	return s.records
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}
