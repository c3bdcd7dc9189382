package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

// Run is the summary of one solve
type Run struct {
	ID                 string    `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time `gorm:"index" json:"created_at"`
	Status             string    `gorm:"not null" json:"status"`
	ObjectiveValue     float64   `json:"objective_value"`
	LaborCost          float64   `json:"labor_cost"`
	ShortagePenalty    float64   `json:"shortage_penalty"`
	PenaltyPerEmployee float64   `json:"penalty_per_employee"`
	NodesExplored      int64     `json:"nodes_explored"`
	ElapsedMS          int64     `json:"elapsed_ms"`
	EmployeeCount      int       `json:"employee_count"`
	ShiftCount         int       `json:"shift_count"`
}

// RunAssignment is one (employee, shift) pair of a run's roster.
// Position keeps the employee's shifts in roster order.
type RunAssignment struct {
	RunID      string `gorm:"primaryKey" json:"run_id"`
	EmployeeID string `gorm:"primaryKey" json:"employee_id"`
	ShiftID    string `gorm:"primaryKey" json:"shift_id"`
	Position   int    `json:"position"`
}

// RunShortage is the unfilled count of one shift in a run
type RunShortage struct {
	RunID    string `gorm:"primaryKey" json:"run_id"`
	ShiftID  string `gorm:"primaryKey" json:"shift_id"`
	Shortage int    `json:"shortage"`
}

// RunDetail is a run with its roster
type RunDetail struct {
	Run         Run             `json:"run"`
	Assignments []RunAssignment `json:"assignments"`
	Shortages   []RunShortage   `json:"shortages"`
}

// NewRun builds the records for a finished solve under a fresh id
func NewRun(cfg *model.SchedulingConfig, result *model.SolveResult, createdAt time.Time) (*Run, []RunAssignment, []RunShortage) {
	run := &Run{
		ID:                 uuid.NewString(),
		CreatedAt:          createdAt.UTC(),
		Status:             string(result.Status),
		ObjectiveValue:     result.ObjectiveValue,
		LaborCost:          result.LaborCost,
		ShortagePenalty:    result.ShortagePenalty,
		PenaltyPerEmployee: cfg.ShortagePenaltyPerEmployee,
		NodesExplored:      result.NodesExplored,
		ElapsedMS:          result.Elapsed.Milliseconds(),
		EmployeeCount:      len(cfg.Employees),
		ShiftCount:         len(cfg.Shifts),
	}

	var assignments []RunAssignment
	for employeeID, shifts := range result.Assignment {
		for i, shiftID := range shifts {
			assignments = append(assignments, RunAssignment{
				RunID:      run.ID,
				EmployeeID: employeeID,
				ShiftID:    shiftID,
				Position:   i,
			})
		}
	}

	var shortages []RunShortage
	for _, s := range cfg.Shifts {
		shortages = append(shortages, RunShortage{RunID: run.ID, ShiftID: s.ID, Shortage: result.Shortage[s.ID]})
	}
	return run, assignments, shortages
}

// Assignment rebuilds the roster mapping
func (d *RunDetail) Assignment() model.Assignment {
	out := model.Assignment{}
	positions := make(map[string][]RunAssignment)
	for _, a := range d.Assignments {
		positions[a.EmployeeID] = append(positions[a.EmployeeID], a)
	}
	for employeeID, rows := range positions {
		shifts := make([]string, len(rows))
		for _, r := range rows {
			if r.Position >= 0 && r.Position < len(shifts) {
				shifts[r.Position] = r.ShiftID
			}
		}
		out[employeeID] = shifts
	}
	return out
}

// Shortage rebuilds the shortage mapping
func (d *RunDetail) Shortage() model.Shortage {
	out := make(model.Shortage, len(d.Shortages))
	for _, s := range d.Shortages {
		out[s.ShiftID] = s.Shortage
	}
	return out
}
