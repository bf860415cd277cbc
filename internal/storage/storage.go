// Package storage defines the persistence interface for comparison runs.
package storage

import (
	"context"

	"github.com/hyperjump/niteru/internal/models"
)

// Storage defines run registry operations.
type Storage interface {
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, offset, limit int) ([]*models.Run, error)
	CountRuns(ctx context.Context) (int64, error)
	Close() error
}
