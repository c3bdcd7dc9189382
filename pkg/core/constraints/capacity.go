package constraints

import (
	"fmt"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// HasCapacity reports whether the employee's assigned hours plus the shift's duration
// stay within their maximum
func HasCapacity(state *State, employee *model.Employee, shift *model.Shift) bool {
	iv := state.Index().MustInterval(shift.ID)
	used := state.slotsUsed[employee.ID]
	return state.Index().SlotHours(used+iv.Len()) <= employee.MaxHours
}

// CapacityConstraint caps each employee's total hours over the horizon
type CapacityConstraint struct{}

func (c *CapacityConstraint) Name() string {
	return "Capacity"
}

func (c *CapacityConstraint) Allows(state *State, employee *model.Employee, shift *model.Shift) bool {
	return HasCapacity(state, employee, shift)
}

func (c *CapacityConstraint) Check(assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) []*model.InvariantViolation {
	var violations []*model.InvariantViolation
	pairsFor(assignment, cfg, func(e *model.Employee, shifts []*model.Shift) {
		slots := 0
		for _, s := range shifts {
			slots += idx.MustInterval(s.ID).Len()
		}
		if hours := idx.SlotHours(slots); hours > e.MaxHours {
			violations = append(violations, &model.InvariantViolation{
				Rule:       c.Name(),
				EmployeeID: e.ID,
				Detail:     fmt.Sprintf("assigned %g hours exceeds maximum %g", hours, e.MaxHours),
			})
		}
	})
	return violations
}
