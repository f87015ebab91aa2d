// Package storage defines the saved-run persistence contract.
package storage

import (
	"context"
	"errors"

	"github.com/rgehrsitz/riseplan/internal/domain"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

// RunStore persists projection runs.
type RunStore interface {
	SaveRun(ctx context.Context, run domain.SavedRun) (domain.SavedRun, error)
	GetRun(ctx context.Context, id string) (domain.SavedRun, error)
	ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error)
	DeleteRun(ctx context.Context, id string) error
	Close() error
}
