package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
)

func TestMigrations_Embedded(t *testing.T) {
	files, err := Migrations()
	require.NoError(t, err)

	require.NotEmpty(t, files)
	assert.Equal(t, "001_create_runs.sql", files[0])
}

// The round trip needs a live server; set SCHEDULER_TEST_DATABASE_URL to run it.
func TestRunStore_RoundTrip(t *testing.T) {
	url := os.Getenv("SCHEDULER_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SCHEDULER_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewDB(ctx, url)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.RunMigrations(ctx))
	require.NoError(t, store.RunMigrations(ctx))

	cfg := &model.SchedulingConfig{
		Employees:                  []model.Employee{{ID: "a"}},
		Shifts:                     []model.Shift{{ID: "s1"}, {ID: "s2"}},
		ShortagePenaltyPerEmployee: 100,
	}
	result := &model.SolveResult{
		Status:     model.StatusFeasible,
		Assignment: model.Assignment{"a": {"s1"}},
		Shortage:   model.Shortage{"s1": 0, "s2": 1},
	}
	run, assignments, shortages := db.NewRun(cfg, result, time.Now())
	require.NoError(t, store.InsertRun(ctx, run, assignments, shortages))

	detail, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Assignment, detail.Assignment())
	assert.Equal(t, result.Shortage, detail.Shortage())

	runs, err := store.GetRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	_, err = store.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, db.ErrRunNotFound)
}
