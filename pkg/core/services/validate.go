package services

import (
	"errors"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// ValidationReport summarises an input without solving it
type ValidationReport struct {
	Valid       bool          `json:"valid"`
	Issues      []model.Issue `json:"issues,omitempty"`
	Employees   int           `json:"employees"`
	Shifts      int           `json:"shifts"`
	TotalDemand int           `json:"total_demand"`
	Skills      []string      `json:"skills"`
	SlotMinutes int           `json:"slot_minutes"`
	SlotCount   int           `json:"slot_count,omitempty"`
}

// ValidateInput runs every check a solve would run before searching, including slot
// alignment, and reports all issues found. It does not modify cfg.
func ValidateInput(cfg *model.SchedulingConfig) *ValidationReport {
	own := cfg.Clone()
	own.Normalize()

	rep := &ValidationReport{
		Employees:   len(own.Employees),
		Shifts:      len(own.Shifts),
		TotalDemand: own.TotalDemand(),
		Skills:      own.AllSkills(),
		SlotMinutes: own.SlotMinutes,
	}

	err := own.Validate()
	if err == nil {
		var idx *timeindex.Index
		idx, err = timeindex.Build(own.Shifts, own.SlotMinutes)
		if err == nil {
			rep.SlotCount = idx.SlotCount()
		}
	}

	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			rep.Issues = verr.Issues
		} else {
			rep.Issues = []model.Issue{{Message: err.Error()}}
		}
	}

	rep.Valid = len(rep.Issues) == 0
	return rep
}
