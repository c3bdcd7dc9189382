package constraints

import (
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// DailyLimitConstraint allows at most one shift per employee per calendar day,
// keyed by the shift's start date in its own location
type DailyLimitConstraint struct{}

func (c *DailyLimitConstraint) Name() string {
	return "OneShiftPerDay"
}

func (c *DailyLimitConstraint) Allows(state *State, employee *model.Employee, shift *model.Shift) bool {
	return state.ShiftsOnDay(employee.ID, shift) == 0
}

func (c *DailyLimitConstraint) Check(assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) []*model.InvariantViolation {
	var violations []*model.InvariantViolation
	pairsFor(assignment, cfg, func(e *model.Employee, shifts []*model.Shift) {
		seen := make(map[string]string)
		for _, s := range shifts {
			day := s.Start.Format(dayLayout)
			if first, ok := seen[day]; ok {
				violations = append(violations, &model.InvariantViolation{
					Rule:       c.Name(),
					EmployeeID: e.ID,
					ShiftID:    s.ID,
					Detail:     "second shift on " + day + " after " + first,
				})
				continue
			}
			seen[day] = s.ID
		}
	})
	return violations
}
