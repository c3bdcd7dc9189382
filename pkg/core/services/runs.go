package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
)

// ListRuns returns stored runs newest first. A non-positive limit returns all runs.
func ListRuns(ctx context.Context, store db.RunStore, logger *zap.Logger, limit int) ([]db.Run, error) {
	logger.Debug("Fetching runs", zap.Int("limit", limit))

	runs, err := store.GetRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	logger.Debug("Found runs", zap.Int("count", len(runs)))
	return runs, nil
}

// GetRun returns one stored run with its roster. A missing run yields db.ErrRunNotFound.
func GetRun(ctx context.Context, store db.RunStore, logger *zap.Logger, id string) (*db.RunDetail, error) {
	logger.Debug("Fetching run", zap.String("run_id", id))

	detail, err := store.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run %s: %w", id, err)
	}
	return detail, nil
}
