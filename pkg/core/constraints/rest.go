package constraints

import (
	"fmt"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// RestConstraint requires at least MinSlots free slots between two shifts of the same employee.
//
// The check widens the candidate interval by MinSlots on both sides and tests it against the
// employee's neighbouring intervals, so it stays O(log n) like NoOverlap.
type RestConstraint struct {
	MinSlots int
}

// NewRestConstraint creates a RestConstraint with the given gap in slots
func NewRestConstraint(minSlots int) *RestConstraint {
	return &RestConstraint{MinSlots: minSlots}
}

func (c *RestConstraint) Name() string {
	return "RestPeriod"
}

func (c *RestConstraint) Allows(state *State, employee *model.Employee, shift *model.Shift) bool {
	iv := state.Index().MustInterval(shift.ID)
	widened := timeindex.Interval{Start: iv.Start - c.MinSlots, End: iv.End + c.MinSlots}
	return !collides(state.Intervals(employee.ID), widened)
}

func (c *RestConstraint) Check(assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) []*model.InvariantViolation {
	var violations []*model.InvariantViolation
	pairsFor(assignment, cfg, func(e *model.Employee, shifts []*model.Shift) {
		sorted := sortedByStart(shifts, idx)
		for i := 1; i < len(sorted); i++ {
			prev, cur := idx.MustInterval(sorted[i-1].ID), idx.MustInterval(sorted[i].ID)
			if gap := cur.Start - prev.End; gap < c.MinSlots {
				violations = append(violations, &model.InvariantViolation{
					Rule:       c.Name(),
					EmployeeID: e.ID,
					ShiftID:    sorted[i].ID,
					Detail:     fmt.Sprintf("only %d slots of rest after %s, need %d", gap, sorted[i-1].ID, c.MinSlots),
				})
			}
		}
	})
	return violations
}
