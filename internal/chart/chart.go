// Package chart renders the similarity scatter chart.
package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Renderer draws the pairwise similarity series to a file. The pipeline is
// polymorphic over this so tests substitute a stub.
type Renderer interface {
	Render(xs, ys []float64, labels, pairLabels []string, docSimilarity float64, outPath string) error
}

// ScatterRenderer renders a scatter chart: x = plot position of the store-A
// sentence, y = cosine similarity of one pair.
type ScatterRenderer struct{}

// NewScatterRenderer returns a Renderer backed by gonum/plot.
func NewScatterRenderer() *ScatterRenderer {
	return &ScatterRenderer{}
}

// Render writes the chart to outPath; the output format follows the file
// extension (.png, .svg, .pdf).
func (r *ScatterRenderer) Render(xs, ys []float64, labels, pairLabels []string, docSimilarity float64, outPath string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("series length mismatch: %d x, %d y", len(xs), len(ys))
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sentence similarity (document similarity %.4f)", docSimilarity)
	p.X.Label.Text = "Sentence position"
	p.Y.Label.Text = "Cosine similarity"
	p.Y.Min, p.Y.Max = -1, 1

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter, plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 5*vg.Inch, outPath); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
