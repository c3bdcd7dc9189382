package constraints

import (
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// AvailabilityConstraint keeps employees with declared windows inside them
type AvailabilityConstraint struct{}

func (c *AvailabilityConstraint) Name() string {
	return "Availability"
}

func (c *AvailabilityConstraint) Allows(state *State, employee *model.Employee, shift *model.Shift) bool {
	return employee.AvailableFor(shift.Start, shift.End)
}

func (c *AvailabilityConstraint) Check(assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) []*model.InvariantViolation {
	var violations []*model.InvariantViolation
	pairsFor(assignment, cfg, func(e *model.Employee, shifts []*model.Shift) {
		for _, s := range shifts {
			if !e.AvailableFor(s.Start, s.End) {
				violations = append(violations, &model.InvariantViolation{
					Rule:       c.Name(),
					EmployeeID: e.ID,
					ShiftID:    s.ID,
					Detail:     "shift is outside the employee's availability",
				})
			}
		}
	})
	return violations
}
