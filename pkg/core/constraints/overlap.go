package constraints

import (
	"sort"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// NoOverlap reports whether the shift's slots are disjoint from every shift already
// assigned to the employee. The employee's intervals are kept sorted and disjoint, so
// only the two neighbours of the insertion point need checking.
func NoOverlap(state *State, employee *model.Employee, shift *model.Shift) bool {
	return !collides(state.Intervals(employee.ID), state.Index().MustInterval(shift.ID))
}

// collides reports whether iv overlaps a neighbour in a start-sorted disjoint slice
func collides(ivs []timeindex.Interval, iv timeindex.Interval) bool {
	pos := sort.Search(len(ivs), func(i int) bool { return ivs[i].Start >= iv.Start })
	if pos < len(ivs) && timeindex.Overlaps(ivs[pos], iv) {
		return true
	}
	if pos > 0 && timeindex.Overlaps(ivs[pos-1], iv) {
		return true
	}
	return false
}

// OverlapConstraint prevents an employee working two shifts that share a slot
type OverlapConstraint struct{}

func (c *OverlapConstraint) Name() string {
	return "NoOverlap"
}

func (c *OverlapConstraint) Allows(state *State, employee *model.Employee, shift *model.Shift) bool {
	return NoOverlap(state, employee, shift)
}

func (c *OverlapConstraint) Check(assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) []*model.InvariantViolation {
	var violations []*model.InvariantViolation
	pairsFor(assignment, cfg, func(e *model.Employee, shifts []*model.Shift) {
		sorted := sortedByStart(shifts, idx)
		if len(sorted) < 2 {
			return
		}
		// reach is the earlier shift that ends last
		reach := sorted[0]
		for _, cur := range sorted[1:] {
			if idx.ShiftsOverlap(reach.ID, cur.ID) {
				violations = append(violations, &model.InvariantViolation{
					Rule:       c.Name(),
					EmployeeID: e.ID,
					ShiftID:    cur.ID,
					Detail:     "overlaps shift " + reach.ID,
				})
			}
			if idx.MustInterval(cur.ID).End > idx.MustInterval(reach.ID).End {
				reach = cur
			}
		}
	})
	return violations
}

func sortedByStart(shifts []*model.Shift, idx *timeindex.Index) []*model.Shift {
	sorted := append([]*model.Shift(nil), shifts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := idx.MustInterval(sorted[i].ID), idx.MustInterval(sorted[j].ID)
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
	return sorted
}
