package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

func TestPromSink_RecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSink(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordSolve(SolveRecord{
		Status:         model.StatusOptimal,
		ObjectiveValue: 160,
		NodesExplored:  42,
		Elapsed:        20 * time.Millisecond,
	}))
	require.NoError(t, sink.RecordSolve(SolveRecord{Status: model.StatusTimeout, TotalShortage: 3}))
	require.NoError(t, sink.RecordImprovement(10))

	expected := `
# HELP scheduler_solves_total Total number of solves by final status
# TYPE scheduler_solves_total counter
scheduler_solves_total{status="OPTIMAL"} 1
scheduler_solves_total{status="TIMEOUT"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.solves, strings.NewReader(expected)))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.shortage))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.improvements))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.duration))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSink(reg)
	require.NoError(t, err)
	second, err := NewPromSink(reg)
	require.NoError(t, err)

	require.NoError(t, first.RecordSolve(SolveRecord{Status: model.StatusFeasible}))
	require.NoError(t, second.RecordSolve(SolveRecord{Status: model.StatusFeasible}))

	assert.Equal(t, 2.0, testutil.ToFloat64(first.solves.WithLabelValues("FEASIBLE")))
}

func TestRecordFromResult(t *testing.T) {
	cfg := &model.SchedulingConfig{Employees: make([]model.Employee, 2), Shifts: make([]model.Shift, 3)}
	rec := RecordFromResult(cfg, &model.SolveResult{
		Status:   model.StatusFeasible,
		Shortage: model.Shortage{"a": 1, "b": 2},
	})

	assert.Equal(t, 3, rec.TotalShortage)
	assert.Equal(t, 2, rec.Employees)
	assert.Equal(t, 3, rec.Shifts)
}
