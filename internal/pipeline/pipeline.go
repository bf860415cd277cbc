// Package pipeline sequences extraction, embedding, similarity computation,
// visualization, and run registration for one document pair.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/niteru/internal/batcher"
	"github.com/hyperjump/niteru/internal/chart"
	"github.com/hyperjump/niteru/internal/config"
	"github.com/hyperjump/niteru/internal/embedding"
	"github.com/hyperjump/niteru/internal/models"
	"github.com/hyperjump/niteru/internal/similarity"
	"github.com/hyperjump/niteru/internal/storage"
	"github.com/hyperjump/niteru/internal/vector"
	"go.uber.org/zap"
)

// Output file names inside the run output directory.
const (
	vectorsAFile   = "vectors_a.csv"
	vectorsBFile   = "vectors_b.csv"
	similarityFile = "similarity.csv"
	chartFile      = "similarity.png"
)

// SentenceExtractor supplies cleaned sentences for a document path.
type SentenceExtractor interface {
	ExtractSentences(path string) ([]string, error)
}

// Pipeline runs one end-to-end comparison.
type Pipeline struct {
	extractor SentenceExtractor
	embedder  embedding.Embedder
	cfg       *config.Config
	renderer  chart.Renderer  // optional; nil skips the chart
	registry  storage.Storage // optional; nil skips run registration
	logger    *zap.Logger     // optional
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRenderer sets the chart renderer.
func WithRenderer(r chart.Renderer) Option {
	return func(p *Pipeline) { p.renderer = r }
}

// WithRegistry sets the run registry.
func WithRegistry(s storage.Storage) Option {
	return func(p *Pipeline) { p.registry = s }
}

// WithLogger sets a logger for stage progress.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline with the given collaborators. Configuration is
// passed in explicitly; nothing reads ambient global state.
func New(extractor SentenceExtractor, embedder embedding.Embedder, cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor: extractor,
		embedder:  embedder,
		cfg:       cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run compares the documents at pathA and pathB. The embedding stage is
// best-effort (items that exhaust retries are dropped); the similarity stage
// is strict and aborts on any structural anomaly in the vector files.
func (p *Pipeline) Run(ctx context.Context, pathA, pathB string) (*models.RunSummary, error) {
	start := time.Now()
	outDir := p.cfg.Storage.OutputDir
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	sentencesA, err := p.extractor.ExtractSentences(pathA)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", pathA, err)
	}
	sentencesB, err := p.extractor.ExtractSentences(pathB)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", pathB, err)
	}
	if len(sentencesA) == 0 || len(sentencesB) == 0 {
		return nil, fmt.Errorf("no sentences extracted (a=%d, b=%d)", len(sentencesA), len(sentencesB))
	}
	p.log("sentences extracted", zap.Int("a", len(sentencesA)), zap.Int("b", len(sentencesB)))

	b := batcher.New(
		p.embedder,
		p.cfg.Pipeline.BatchSize,
		p.cfg.Pipeline.SaveInterval,
		p.cfg.Pipeline.MaxAttempts,
		batcher.WithLogger(p.logger),
	)
	vectorsAPath := filepath.Join(outDir, vectorsAFile)
	vectorsBPath := filepath.Join(outDir, vectorsBFile)
	statsA, err := b.Run(ctx, sentencesA, vectorsAPath)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", pathA, err)
	}
	statsB, err := b.Run(ctx, sentencesB, vectorsBPath)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", pathB, err)
	}
	p.log("embedding finished",
		zap.Int("written_a", statsA.Written), zap.Int("failed_a", statsA.Failed),
		zap.Int("written_b", statsB.Written), zap.Int("failed_b", statsB.Failed),
	)

	storeA, err := vector.LoadStore(vectorsAPath, p.logger)
	if err != nil {
		return nil, err
	}
	storeB, err := vector.LoadStore(vectorsBPath, p.logger)
	if err != nil {
		return nil, err
	}
	if err := storeA.ValidateUniformDimension(); err != nil {
		return nil, fmt.Errorf("%s: %w", vectorsAPath, err)
	}
	if err := storeB.ValidateUniformDimension(); err != nil {
		return nil, fmt.Errorf("%s: %w", vectorsBPath, err)
	}

	engine := similarity.NewEngine(similarity.WithPlotWidth(p.cfg.Pipeline.PlotWidth))
	rows, err := engine.PairwiseMatrix(ctx, storeA, storeB)
	if err != nil {
		return nil, err
	}
	docSim := similarity.DocumentSimilarity(rows, storeA.Len(), storeB.Len())

	matrixPath := filepath.Join(outDir, similarityFile)
	if err := similarity.WriteMatrix(matrixPath, rows, docSim); err != nil {
		return nil, err
	}

	summary := &models.RunSummary{
		RunID:              uuid.New().String(),
		DocA:               pathA,
		DocB:               pathB,
		SentencesA:         len(sentencesA),
		SentencesB:         len(sentencesB),
		EmbeddedA:          statsA.Written,
		EmbeddedB:          statsB.Written,
		Pairs:              len(rows),
		DocumentSimilarity: docSim,
		MatrixPath:         matrixPath,
	}

	if p.renderer != nil {
		xs, ys, labels, pairLabels := similarity.PlotPoints(rows)
		chartPath := filepath.Join(outDir, chartFile)
		if err := p.renderer.Render(xs, ys, labels, pairLabels, docSim, chartPath); err != nil {
			return nil, fmt.Errorf("render chart: %w", err)
		}
		summary.ChartPath = chartPath
	}

	if p.registry != nil {
		run := &models.Run{
			ID:         summary.RunID,
			DocA:       pathA,
			DocB:       pathB,
			Similarity: docSim,
			Pairs:      len(rows),
		}
		if err := p.registry.SaveRun(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}

	summary.ElapsedMs = time.Since(start).Milliseconds()
	p.log("comparison finished",
		zap.String("run_id", summary.RunID),
		zap.Float64("document_similarity", docSim),
		zap.Int("pairs", len(rows)),
	)
	return summary, nil
}

func (p *Pipeline) log(msg string, fields ...zap.Field) {
	if p.logger != nil {
		p.logger.Info(msg, fields...)
	}
}
