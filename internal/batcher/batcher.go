// Package batcher drives the embedding provider over a sentence list in
// batches, with per-item retry fallback and checkpointed output.
package batcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/niteru/internal/embedding"
	"github.com/hyperjump/niteru/pkg/utils"
	"go.uber.org/zap"
)

// ErrEmbeddingExhausted is returned by generateWithRetry when all attempts
// for one item have failed. The item is dropped; the run continues.
var ErrEmbeddingExhausted = errors.New("embedding attempts exhausted")

// Stats summarizes one batcher run.
type Stats struct {
	Written int
	Failed  int
	Batches int
}

// Batcher embeds a sentence list and streams the results to a persisted
// vector file. Batches are processed sequentially; a failed or mismatched
// batch degrades to per-item retries rather than aborting the run.
type Batcher struct {
	embedder     embedding.Embedder
	batchSize    int
	saveInterval int
	maxAttempts  int
	backoffUnit  time.Duration
	logger       *zap.Logger
}

// Option configures a Batcher.
type Option func(*Batcher)

// WithLogger sets a logger for progress checkpoints and per-item failures.
func WithLogger(l *zap.Logger) Option {
	return func(b *Batcher) { b.logger = l }
}

// WithBackoffUnit overrides the linear backoff unit (default 1s; attempt n
// waits n units). Tests shorten it.
func WithBackoffUnit(d time.Duration) Option {
	return func(b *Batcher) {
		if d > 0 {
			b.backoffUnit = d
		}
	}
}

// New creates a Batcher. Non-positive settings fall back to the defaults:
// batch size 10, save interval 100, max attempts 3.
func New(embedder embedding.Embedder, batchSize, saveInterval, maxAttempts int, opts ...Option) *Batcher {
	if batchSize <= 0 {
		batchSize = 10
	}
	if saveInterval <= 0 {
		saveInterval = 100
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	b := &Batcher{
		embedder:     embedder,
		batchSize:    batchSize,
		saveInterval: saveInterval,
		maxAttempts:  maxAttempts,
		backoffUnit:  time.Second,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run embeds sentences and writes one output line per successfully embedded
// item to outputPath. A pre-existing file at outputPath is deleted first;
// failure to delete is fatal. Items whose retries are exhausted are dropped
// and the run continues with the remaining items.
// Output is flushed to durable storage every saveInterval written items.
// Cancellation is honored between batches and between retry waits.
func (b *Batcher) Run(ctx context.Context, sentences []string, outputPath string) (Stats, error) {
	var stats Stats
	if err := removeIfExists(outputPath); err != nil {
		return stats, fmt.Errorf("remove existing output: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return stats, fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	sinceFlush := 0
	writeItem := func(ordinal int, text string, vec []float64) error {
		if err := writeRecord(w, ordinal, text, vec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		stats.Written++
		sinceFlush++
		if sinceFlush >= b.saveInterval {
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flush output: %w", err)
			}
			if err := f.Sync(); err != nil {
				return fmt.Errorf("sync output: %w", err)
			}
			sinceFlush = 0
			if b.logger != nil {
				b.logger.Info("embedding checkpoint",
					zap.String("output", outputPath),
					zap.Int("written", stats.Written),
					zap.Int("total", len(sentences)),
				)
			}
		}
		return nil
	}

	for start := 0; start < len(sentences); start += b.batchSize {
		if err := ctx.Err(); err != nil {
			_ = w.Flush()
			return stats, err
		}
		end := start + b.batchSize
		if end > len(sentences) {
			end = len(sentences)
		}
		batch := sentences[start:end]
		stats.Batches++

		vecs, batchErr := b.embedder.EmbedBatch(ctx, batch)
		if batchErr == nil && len(vecs) == len(batch) {
			for i, vec := range vecs {
				if err := writeItem(start+i+1, batch[i], vec); err != nil {
					return stats, err
				}
			}
			continue
		}
		if b.logger != nil {
			b.logger.Warn("batch embedding degraded to per-item processing",
				zap.Int("batch_start", start),
				zap.Int("batch_len", len(batch)),
				zap.Int("returned", len(vecs)),
				zap.Error(batchErr),
			)
		}
		for i, text := range batch {
			vec, err := b.generateWithRetry(ctx, text)
			if err != nil {
				if ctx.Err() != nil {
					_ = w.Flush()
					return stats, ctx.Err()
				}
				stats.Failed++
				if b.logger != nil {
					b.logger.Warn("dropping item after exhausted retries",
						zap.Int("ordinal", start+i+1),
						zap.String("text", utils.Truncate(text, 80)),
						zap.Error(err),
					)
				}
				continue
			}
			if err := writeItem(start+i+1, text, vec); err != nil {
				return stats, err
			}
		}
	}

	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("flush output: %w", err)
	}
	if err := f.Sync(); err != nil {
		return stats, fmt.Errorf("sync output: %w", err)
	}
	return stats, nil
}

// generateWithRetry attempts the single-item embedding call up to
// maxAttempts times with linear backoff (attempt n waits n backoff units).
// A rate-limited response extends the wait to the server's Retry-After
// window when that is longer than the linear step.
func (b *Batcher) generateWithRetry(ctx context.Context, text string) ([]float64, error) {
	var lastErr error
	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		vec, err := b.embedder.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		lastErr = err
		if attempt == b.maxAttempts {
			break
		}
		wait := time.Duration(attempt) * b.backoffUnit
		var rle *embedding.RateLimitError
		if errors.As(err, &rle) && rle.RetryAfter > wait {
			wait = rle.RetryAfter
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrEmbeddingExhausted, b.maxAttempts, lastErr)
}

// writeRecord writes one output line: quoted "ordinal: text", comma, quoted
// comma-joined vector components. The ordinal prefix is what the vector file
// parser later recovers as the record index.
func writeRecord(w *bufio.Writer, ordinal int, text string, vec []float64) error {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	_, err := fmt.Fprintf(w, "\"%d: %s\",\"%s\"\n", ordinal, text, strings.Join(parts, ","))
	return err
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return err
}
