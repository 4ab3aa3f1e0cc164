// Package storage persists job analyses and resume files.
package storage

import (
	"context"
	"errors"

	"github.com/jobfit/backend/models"
)

// ErrNotFound is returned when a record or file does not exist
var ErrNotFound = errors.New("not found")

// AnalysisStore keeps the history of analyzed job URLs
type AnalysisStore interface {
	Save(ctx context.Context, analysis *models.JobAnalysis) error
	Recent(ctx context.Context, limit int) ([]models.JobAnalysis, error)
	Get(ctx context.Context, id string) (*models.JobAnalysis, error)
	Close() error
}
