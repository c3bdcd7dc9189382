package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/solver"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/metrics"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/report"
)

// SolveOutput is everything produced by one solve
type SolveOutput struct {
	Result *model.SolveResult
	Report *report.Report
	// Config is the normalized config the search ran on
	Config *model.SchedulingConfig
	Index  *timeindex.Index
	// Run is nil when no store was given or storing failed
	Run *db.Run
}

// Solve validates cfg, runs the search within budget, builds the report, stores
// the run when store is non-nil and records metrics when sink is non-nil.
// Storage and metrics failures are logged and do not fail the solve.
func Solve(ctx context.Context, store db.RunStore, sink metrics.Sink, logger *zap.Logger, cfg *model.SchedulingConfig, budget solver.Budget) (*SolveOutput, error) {
	if sink == nil {
		sink = metrics.NopSink{}
	}

	logger.Debug("Preparing solver",
		zap.Int("employees", len(cfg.Employees)),
		zap.Int("shifts", len(cfg.Shifts)),
		zap.Int64("max_nodes", budget.MaxNodes),
		zap.Duration("time_limit", budget.TimeLimit))

	s, err := solver.New(cfg, solver.Options{
		Budget: budget,
		OnImprovement: func(imp solver.Improvement) {
			logger.Debug("Incumbent improved",
				zap.Float64("cost", imp.Cost),
				zap.Int("total_shortage", imp.TotalShortage),
				zap.Int64("nodes", imp.Nodes))
			if err := sink.RecordImprovement(imp.Cost); err != nil {
				logger.Warn("Failed to record improvement", zap.Error(err))
			}
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Solving roster", zap.Int("demand", s.Config().TotalDemand()))
	result, err := s.Solve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to solve roster: %w", err)
	}

	logger.Info("Solve finished",
		zap.String("status", string(result.Status)),
		zap.Float64("objective_value", result.ObjectiveValue),
		zap.Int("total_shortage", result.Shortage.Total()),
		zap.Int64("nodes_explored", result.NodesExplored),
		zap.Duration("elapsed", result.Elapsed))

	out := &SolveOutput{
		Result: result,
		Report: report.Build(s.Config(), s.Index(), result),
		Config: s.Config(),
		Index:  s.Index(),
	}

	if err := sink.RecordSolve(metrics.RecordFromResult(s.Config(), result)); err != nil {
		logger.Warn("Failed to record solve metrics", zap.Error(err))
	}

	if store != nil {
		run, assignments, shortages := db.NewRun(s.Config(), result, time.Now().UTC())
		if err := store.InsertRun(ctx, run, assignments, shortages); err != nil {
			logger.Error("Failed to store run", zap.String("run_id", run.ID), zap.Error(err))
		} else {
			logger.Info("Run stored", zap.String("run_id", run.ID))
			out.Run = run
			out.Report.RunID = run.ID
		}
	}

	return out, nil
}
