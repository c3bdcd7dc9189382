package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

func TestNewRun_RoundTripsThroughDetail(t *testing.T) {
	cfg := &model.SchedulingConfig{
		Employees:                  []model.Employee{{ID: "a"}, {ID: "b"}},
		Shifts:                     []model.Shift{{ID: "s1"}, {ID: "s2"}, {ID: "s3"}},
		ShortagePenaltyPerEmployee: 100,
	}
	result := &model.SolveResult{
		Status:         model.StatusFeasible,
		Assignment:     model.Assignment{"a": {"s2", "s1"}, "b": {"s1"}},
		Shortage:       model.Shortage{"s1": 0, "s2": 0, "s3": 1},
		ObjectiveValue: 250,
		NodesExplored:  12,
		Elapsed:        2 * time.Second,
	}
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.FixedZone("X", 3600))

	run, assignments, shortages := NewRun(cfg, result, created)

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, run.CreatedAt.Location())
	assert.Equal(t, "FEASIBLE", run.Status)
	assert.Equal(t, int64(2000), run.ElapsedMS)
	assert.Equal(t, 2, run.EmployeeCount)
	assert.Equal(t, 3, run.ShiftCount)
	assert.Len(t, assignments, 3)
	assert.Len(t, shortages, 3)

	detail := &RunDetail{Run: *run, Assignments: assignments, Shortages: shortages}
	assert.Equal(t, result.Assignment, detail.Assignment())
	assert.Equal(t, result.Shortage, detail.Shortage())
}

func TestNewRun_FreshIDs(t *testing.T) {
	cfg := &model.SchedulingConfig{Shifts: []model.Shift{{ID: "s"}}}
	result := &model.SolveResult{Status: model.StatusInfeasible, Shortage: model.Shortage{"s": 1}}

	first, _, _ := NewRun(cfg, result, time.Now())
	second, _, _ := NewRun(cfg, result, time.Now())

	assert.NotEqual(t, first.ID, second.ID)
}
