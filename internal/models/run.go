// Package models defines core data structures for comparison runs.
package models

import "time"

// Run is a persisted record of one document comparison.
type Run struct {
	ID         string    `json:"id" db:"id"`
	DocA       string    `json:"doc_a" db:"doc_a"`
	DocB       string    `json:"doc_b" db:"doc_b"`
	Similarity float64   `json:"similarity" db:"similarity"`
	Pairs      int       `json:"pairs" db:"pairs"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// RunSummary is the result of one pipeline run.
type RunSummary struct {
	RunID              string  `json:"run_id"`
	DocA               string  `json:"doc_a"`
	DocB               string  `json:"doc_b"`
	SentencesA         int     `json:"sentences_a"`
	SentencesB         int     `json:"sentences_b"`
	EmbeddedA          int     `json:"embedded_a"`
	EmbeddedB          int     `json:"embedded_b"`
	Pairs              int     `json:"pairs"`
	DocumentSimilarity float64 `json:"document_similarity"`
	MatrixPath         string  `json:"matrix_path"`
	ChartPath          string  `json:"chart_path,omitempty"`
	ElapsedMs          int64   `json:"elapsed_ms"`
}
