// Package similarity computes pairwise and document-level cosine similarity
// between two vector stores.
package similarity

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/hyperjump/niteru/internal/vector"
	"github.com/hyperjump/niteru/pkg/utils"
)

// DefaultPlotWidth is the horizontal plotting width the x positions are
// spread across.
const DefaultPlotWidth = 536.0

// similarityDecimals is the precision similarity values are rounded to
// before serialization.
const similarityDecimals = 10

// Row is one pairwise similarity between a record from store A and a record
// from store B.
type Row struct {
	Index1     string
	Index2     string
	Text1      string
	Text2      string
	XPosition  int
	Similarity float64
}

// Engine computes pairwise similarity matrices.
type Engine struct {
	plotWidth float64
	workers   int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPlotWidth overrides the plotting width used for x positions.
func WithPlotWidth(w float64) EngineOption {
	return func(e *Engine) {
		if w > 0 {
			e.plotWidth = w
		}
	}
}

// WithWorkers bounds the worker pool for the pairwise fan-out.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine creates an engine with the default plot width and a worker pool
// sized to the available parallelism.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		plotWidth: DefaultPlotWidth,
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cosine returns the cosine similarity dot(a,b)/(|a||b|). Returns exactly 0.0
// (never NaN) when either magnitude is zero or the lengths differ.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	magA, magB := utils.Magnitude(a), utils.Magnitude(b)
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (magA * magB)
}

// PairwiseMatrix computes one Row per (index-from-A, index-from-B) pair: the
// full cross product. Rows are grouped by store A's indices in sorted order;
// within a group, store B's records follow the store's natural map order.
// Each store-A index is assigned an x position evenly spaced across the plot
// width, and every similarity is rounded half-away-from-zero to 10 decimals.
// Per-index groups are computed concurrently on the worker pool; each task
// writes into its own pre-sized slot, so the merge needs no locking.
// Cancellation is honored between tasks.
func (e *Engine) PairwiseMatrix(ctx context.Context, storeA, storeB *vector.Store) ([]Row, error) {
	indicesA := storeA.SortedIndices()
	countA := len(indicesA)
	countB := storeB.Len()
	if countA == 0 || countB == 0 {
		return nil, nil
	}

	groups := make([][]Row, countA)
	tasks := make(chan int)
	var wg sync.WaitGroup

	workers := e.workers
	if workers > countA {
		workers = countA
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				if ctx.Err() != nil {
					return
				}
				groups[i] = e.rowsForIndex(indicesA[i], i, countA, storeA, storeB)
			}
		}()
	}

dispatch:
	for i := 0; i < countA; i++ {
		select {
		case tasks <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(tasks)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, countA*countB)
	for _, g := range groups {
		rows = append(rows, g...)
	}
	return rows, nil
}

// rowsForIndex computes the store-B matches for one store-A index.
func (e *Engine) rowsForIndex(indexA string, pos, countA int, storeA, storeB *vector.Store) []Row {
	recA, _ := storeA.Get(indexA)
	x := e.xPosition(pos, countA)
	rows := make([]Row, 0, storeB.Len())
	for indexB, recB := range storeB.Records() {
		sim := utils.RoundHalfAwayFromZero(Cosine(recA.Vector, recB.Vector), similarityDecimals)
		rows = append(rows, Row{
			Index1:     indexA,
			Index2:     indexB,
			Text1:      recA.Text,
			Text2:      recB.Text,
			XPosition:  x,
			Similarity: sim,
		})
	}
	return rows
}

// xPosition spreads store A's sorted indices evenly across the plot width.
// A single-element store sits at the midpoint.
func (e *Engine) xPosition(i, countA int) int {
	if countA <= 1 {
		return int(math.Round(e.plotWidth / 2))
	}
	return int(math.Round(float64(i) * e.plotWidth / float64(countA-1)))
}

// DocumentSimilarity returns the arithmetic mean of all pairwise
// similarities, or 0 when either count is zero.
func DocumentSimilarity(rows []Row, countA, countB int) float64 {
	if countA == 0 || countB == 0 || len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += r.Similarity
	}
	return sum / float64(countA*countB)
}

// PlotPoints converts rows into the positional series consumed by the chart
// renderer: x positions, similarity values, store-A labels, and pair labels.
func PlotPoints(rows []Row) (xs []float64, ys []float64, labels []string, pairLabels []string) {
	xs = make([]float64, len(rows))
	ys = make([]float64, len(rows))
	labels = make([]string, len(rows))
	pairLabels = make([]string, len(rows))
	for i, r := range rows {
		xs[i] = float64(r.XPosition)
		ys[i] = r.Similarity
		labels[i] = r.Text1
		pairLabels[i] = r.Text1 + " / " + r.Text2
	}
	return xs, ys, labels, pairLabels
}
