package metrics

import (
	"time"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

// SolveRecord describes one finished solve
type SolveRecord struct {
	Status         model.Status
	ObjectiveValue float64
	TotalShortage  int
	NodesExplored  int64
	Elapsed        time.Duration
	Employees      int
	Shifts         int
}

// RecordFromResult summarises a result for recording
func RecordFromResult(cfg *model.SchedulingConfig, result *model.SolveResult) SolveRecord {
	return SolveRecord{
		Status:         result.Status,
		ObjectiveValue: result.ObjectiveValue,
		TotalShortage:  result.Shortage.Total(),
		NodesExplored:  result.NodesExplored,
		Elapsed:        result.Elapsed,
		Employees:      len(cfg.Employees),
		Shifts:         len(cfg.Shifts),
	}
}

// Sink records solver activity
type Sink interface {
	RecordSolve(rec SolveRecord) error
	RecordImprovement(cost float64) error
}

// NopSink discards everything
type NopSink struct{}

func (NopSink) RecordSolve(SolveRecord) error { return nil }

func (NopSink) RecordImprovement(float64) error { return nil }
