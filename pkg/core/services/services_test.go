package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/internal/config"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/patterns"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/solver"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/metrics"
)

// mockRunStore is an in-memory RunStore
type mockRunStore struct {
	runs        []db.Run
	assignments map[string][]db.RunAssignment
	shortages   map[string][]db.RunShortage
	insertErr   error
}

func newMockRunStore() *mockRunStore {
	return &mockRunStore{
		assignments: make(map[string][]db.RunAssignment),
		shortages:   make(map[string][]db.RunShortage),
	}
}

func (m *mockRunStore) InsertRun(ctx context.Context, run *db.Run, assignments []db.RunAssignment, shortages []db.RunShortage) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.runs = append(m.runs, *run)
	m.assignments[run.ID] = assignments
	m.shortages[run.ID] = shortages
	return nil
}

func (m *mockRunStore) GetRuns(ctx context.Context, limit int) ([]db.Run, error) {
	if limit > 0 && limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockRunStore) GetRun(ctx context.Context, id string) (*db.RunDetail, error) {
	for _, r := range m.runs {
		if r.ID == id {
			return &db.RunDetail{Run: r, Assignments: m.assignments[id], Shortages: m.shortages[id]}, nil
		}
	}
	return nil, db.ErrRunNotFound
}

func (m *mockRunStore) Close() error { return nil }

type recordingSink struct {
	mu           sync.Mutex
	solves       []metrics.SolveRecord
	improvements []float64
}

func (s *recordingSink) RecordSolve(rec metrics.SolveRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.solves = append(s.solves, rec)
	return nil
}

func (s *recordingSink) RecordImprovement(cost float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.improvements = append(s.improvements, cost)
	return nil
}

type mockSheetsReader struct {
	LoadFunc func(spreadsheetID, employeesTab, shiftsTab string) (*model.SchedulingConfig, error)
}

func (m *mockSheetsReader) LoadSchedulingConfig(spreadsheetID, employeesTab, shiftsTab string) (*model.SchedulingConfig, error) {
	return m.LoadFunc(spreadsheetID, employeesTab, shiftsTab)
}

func at(hour int) time.Time {
	return time.Date(2024, 1, 1, hour, 0, 0, 0, time.UTC)
}

func nurseConfig(penalty float64) *model.SchedulingConfig {
	return &model.SchedulingConfig{
		Employees: []model.Employee{
			{ID: "n1", Name: "Nurse", Skills: []string{"nurse"}, MaxHours: 40, CostPerHour: 20},
		},
		Shifts: []model.Shift{
			{ID: "s1", Start: at(8), End: at(16), RequiredSkill: "nurse", RequiredEmployees: 1},
		},
		SlotMinutes:                60,
		ShortagePenaltyPerEmployee: penalty,
	}
}

func TestSolve_StoresRunAndRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	store := newMockRunStore()
	sink := &recordingSink{}

	out, err := Solve(ctx, store, sink, logger, nurseConfig(200), solver.Budget{})
	require.NoError(t, err)

	assert.Equal(t, model.StatusOptimal, out.Result.Status)
	assert.Equal(t, 160.0, out.Report.ObjectiveValue)
	assert.Equal(t, 1.0, out.Report.KPIs.CoverageRatio)

	require.NotNil(t, out.Run)
	require.Len(t, store.runs, 1)
	assert.Equal(t, out.Run.ID, out.Report.RunID)
	assert.Equal(t, "OPTIMAL", store.runs[0].Status)
	assert.Len(t, store.assignments[out.Run.ID], 1)

	require.Len(t, sink.solves, 1)
	assert.Equal(t, model.StatusOptimal, sink.solves[0].Status)
	assert.NotEmpty(t, sink.improvements)
}

func TestSolve_StoreFailureKeepsResult(t *testing.T) {
	store := newMockRunStore()
	store.insertErr = errors.New("connection refused")

	out, err := Solve(context.Background(), store, nil, zap.NewNop(), nurseConfig(200), solver.Budget{})
	require.NoError(t, err)

	assert.Nil(t, out.Run)
	assert.Empty(t, out.Report.RunID)
	assert.Equal(t, model.StatusOptimal, out.Result.Status)
}

func TestSolve_WithoutStore(t *testing.T) {
	out, err := Solve(context.Background(), nil, nil, zap.NewNop(), nurseConfig(100), solver.Budget{})
	require.NoError(t, err)

	assert.Nil(t, out.Run)
	assert.Equal(t, model.StatusFeasible, out.Result.Status)
	assert.Equal(t, model.Shortage{"s1": 1}, out.Report.Shortages)
}

func TestSolve_InvalidInput(t *testing.T) {
	cfg := nurseConfig(100)
	cfg.Employees = append(cfg.Employees, cfg.Employees[0])

	_, err := Solve(context.Background(), newMockRunStore(), nil, zap.NewNop(), cfg, solver.Budget{})

	var verr *model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, err.Error(), "duplicate employee id")
}

func TestSweepPenalties(t *testing.T) {
	points, err := SweepPenalties(context.Background(), zap.NewNop(), nurseConfig(100), []float64{500, 100, 200}, solver.Budget{})
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 100.0, points[0].Penalty)
	assert.Equal(t, 1, points[0].TotalShortage)
	assert.Equal(t, model.StatusFeasible, points[0].Status)

	assert.Equal(t, 200.0, points[1].Penalty)
	assert.Equal(t, 0, points[1].TotalShortage)
	assert.Equal(t, 160.0, points[1].ObjectiveValue)

	for i := 1; i < len(points); i++ {
		assert.LessOrEqual(t, points[i].TotalShortage, points[i-1].TotalShortage)
	}
}

func TestSweepPenalties_RejectsBadPenalties(t *testing.T) {
	_, err := SweepPenalties(context.Background(), zap.NewNop(), nurseConfig(100), []float64{100, 0}, solver.Budget{})
	assert.Error(t, err)

	_, err = SweepPenalties(context.Background(), zap.NewNop(), nurseConfig(100), nil, solver.Budget{})
	assert.Error(t, err)
}

func TestSweepPenalties_DoesNotMutateInput(t *testing.T) {
	cfg := nurseConfig(100)

	_, err := SweepPenalties(context.Background(), zap.NewNop(), cfg, []float64{300}, solver.Budget{})
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.ShortagePenaltyPerEmployee)
}

func TestValidateInput(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		rep := ValidateInput(nurseConfig(100))

		assert.True(t, rep.Valid)
		assert.Empty(t, rep.Issues)
		assert.Equal(t, 1, rep.TotalDemand)
		assert.Equal(t, []string{"nurse"}, rep.Skills)
		assert.Equal(t, 8, rep.SlotCount)
	})

	t.Run("collects issues", func(t *testing.T) {
		cfg := nurseConfig(100)
		cfg.Employees[0].MaxHours = -1
		cfg.Shifts = append(cfg.Shifts, cfg.Shifts[0])

		rep := ValidateInput(cfg)

		assert.False(t, rep.Valid)
		assert.GreaterOrEqual(t, len(rep.Issues), 2)
	})

	t.Run("misaligned shift", func(t *testing.T) {
		cfg := nurseConfig(100)
		cfg.Shifts[0].End = cfg.Shifts[0].End.Add(30 * time.Minute)

		rep := ValidateInput(cfg)

		assert.False(t, rep.Valid)
		require.NotEmpty(t, rep.Issues)
		assert.Contains(t, rep.Issues[0].String(), "not aligned")
	})
}

func TestListRunsAndGetRun(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	store := newMockRunStore()

	out, err := Solve(ctx, store, nil, logger, nurseConfig(200), solver.Budget{})
	require.NoError(t, err)

	runs, err := ListRuns(ctx, store, logger, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	detail, err := GetRun(ctx, store, logger, out.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Result.Assignment, detail.Assignment())

	_, err = GetRun(ctx, store, logger, "missing")
	assert.True(t, errors.Is(err, db.ErrRunNotFound))
}

func TestLoadInput_FileWithPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"employees": [{"id": "a", "skills": ["front"], "max_hours": 40, "cost_per_hour": 10}],
		"shifts": [{"id": "manual", "start": "2024-01-01T13:00:00Z", "end": "2024-01-01T17:00:00Z", "required_skill": "front", "required_employees": 1}],
		"shortage_penalty_per_employee": 50
	}`), 0o644))

	appCfg := &config.Config{
		Input:  config.InputConfig{Path: path},
		Solver: config.SolverConfig{ShortagePenaltyPerEmployee: 300},
		Patterns: []patterns.Pattern{{
			ID:                "early",
			RRule:             "FREQ=DAILY;COUNT=3",
			Anchor:            at(9),
			DurationMinutes:   240,
			RequiredSkill:     "front",
			RequiredEmployees: 1,
		}},
		Horizon: config.HorizonConfig{From: at(0), To: at(0).AddDate(0, 0, 7)},
	}

	cfg, err := LoadInput(context.Background(), appCfg, nil, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, cfg.Shifts, 4)
	assert.Equal(t, "manual", cfg.Shifts[0].ID)
	assert.Equal(t, "early-20240101T0900", cfg.Shifts[1].ID)
	assert.Equal(t, 300.0, cfg.ShortagePenaltyPerEmployee)
}

func TestLoadInput_Spreadsheet(t *testing.T) {
	appCfg := config.Default()
	appCfg.Input.SpreadsheetID = "sheet-id"

	var gotTabs []string
	sheets := &mockSheetsReader{LoadFunc: func(id, employeesTab, shiftsTab string) (*model.SchedulingConfig, error) {
		gotTabs = []string{id, employeesTab, shiftsTab}
		return nurseConfig(100), nil
	}}

	cfg, err := LoadInput(context.Background(), appCfg, sheets, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{"sheet-id", "Employees", "Shifts"}, gotTabs)
	assert.Len(t, cfg.Employees, 1)
}

func TestLoadInput_NoSource(t *testing.T) {
	_, err := LoadInput(context.Background(), config.Default(), nil, zap.NewNop())
	assert.True(t, errors.Is(err, ErrNoInput))
}
