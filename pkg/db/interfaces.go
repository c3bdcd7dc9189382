package db

import (
	"context"
	"errors"
)

// ErrRunNotFound is returned by GetRun when no run has the given id
var ErrRunNotFound = errors.New("run not found")

// RunStore persists solve runs.
// Both postgres.DB and localstore.Store implement this interface.
type RunStore interface {
	InsertRun(ctx context.Context, run *Run, assignments []RunAssignment, shortages []RunShortage) error
	// GetRuns returns the most recent runs first; limit <= 0 means no limit
	GetRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id string) (*RunDetail, error)
	Close() error
}
