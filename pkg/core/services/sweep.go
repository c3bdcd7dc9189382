package services

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/solver"
)

// SweepPoint is the outcome of solving under one shortage penalty
type SweepPoint struct {
	Penalty         float64      `json:"penalty"`
	Status          model.Status `json:"status"`
	TotalShortage   int          `json:"total_shortage"`
	LaborCost       float64      `json:"labor_cost"`
	ShortagePenalty float64      `json:"shortage_penalty"`
	ObjectiveValue  float64      `json:"objective_value"`
	NodesExplored   int64        `json:"nodes_explored"`
}

// SweepPenalties solves cfg once per penalty, running the solves concurrently.
// Each solve gets its own copy of cfg and its own budget. Points are ordered by
// penalty. Penalties must be positive.
func SweepPenalties(ctx context.Context, logger *zap.Logger, cfg *model.SchedulingConfig, penalties []float64, budget solver.Budget) ([]SweepPoint, error) {
	if len(penalties) == 0 {
		return nil, fmt.Errorf("at least one penalty is required")
	}
	for _, p := range penalties {
		if p <= 0 {
			return nil, fmt.Errorf("penalties must be positive, got %g", p)
		}
	}

	sorted := append([]float64(nil), penalties...)
	sort.Float64s(sorted)

	logger.Info("Sweeping shortage penalties", zap.Float64s("penalties", sorted))

	points := make([]SweepPoint, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, penalty := range sorted {
		g.Go(func() error {
			variant := cfg.Clone()
			variant.ShortagePenaltyPerEmployee = penalty

			result, err := solver.Solve(gctx, variant, solver.Options{Budget: budget})
			if err != nil {
				return fmt.Errorf("failed to solve with penalty %g: %w", penalty, err)
			}

			logger.Debug("Sweep point solved",
				zap.Float64("penalty", penalty),
				zap.String("status", string(result.Status)),
				zap.Int("total_shortage", result.Shortage.Total()))

			points[i] = SweepPoint{
				Penalty:         penalty,
				Status:          result.Status,
				TotalShortage:   result.Shortage.Total(),
				LaborCost:       result.LaborCost,
				ShortagePenalty: result.ShortagePenalty,
				ObjectiveValue:  result.ObjectiveValue,
				NodesExplored:   result.NodesExplored,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
