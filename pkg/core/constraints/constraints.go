package constraints

import (
	"errors"
	"sort"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// Constraint is a hard rule consulted by the solver at every branch
type Constraint interface {
	// Name returns a human-readable identifier for this constraint
	Name() string

	// Allows reports whether the employee may take the shift given the current partial state.
	// It acts as a veto: if ANY constraint returns false the employee is not a candidate.
	// Implementations must only look at the employee's own entries in the state.
	Allows(state *State, employee *model.Employee, shift *model.Shift) bool

	// Check re-verifies a finished assignment from scratch without trusting any cached state.
	// Returns one violation per offending pair (empty if all valid).
	Check(assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) []*model.InvariantViolation
}

// Default returns the rules every solve enforces: skill, capacity and non-overlap
func Default() []Constraint {
	return []Constraint{
		&SkillConstraint{},
		&CapacityConstraint{},
		&OverlapConstraint{},
	}
}

// ForConfig returns the default rules plus the optional ones switched on in the config
func ForConfig(cfg *model.SchedulingConfig) []Constraint {
	rules := Default()
	if cfg.MinRestSlots > 0 {
		rules = append(rules, NewRestConstraint(cfg.MinRestSlots))
	}
	if cfg.OneShiftPerDay {
		rules = append(rules, &DailyLimitConstraint{})
	}
	for _, e := range cfg.Employees {
		if len(e.Availability) > 0 {
			rules = append(rules, &AvailabilityConstraint{})
			break
		}
	}
	return rules
}

// IsFeasibleCandidate reports whether every rule allows the pairing
func IsFeasibleCandidate(rules []Constraint, state *State, employee *model.Employee, shift *model.Shift) bool {
	for _, rule := range rules {
		if !rule.Allows(state, employee, shift) {
			return false
		}
	}
	return true
}

// FeasibleCandidates filters employees down to the feasible candidates for a shift,
// preserving the input order. Callers pass employees sorted by (cost, id).
func FeasibleCandidates(rules []Constraint, state *State, employees []*model.Employee, shift *model.Shift, buf []*model.Employee) []*model.Employee {
	out := buf[:0]
	for _, e := range employees {
		if IsFeasibleCandidate(rules, state, e, shift) {
			out = append(out, e)
		}
	}
	return out
}

// Verify runs every rule's Check against a finished assignment and also checks
// that each assigned id refers to a known employee and shift
func Verify(rules []Constraint, assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) error {
	var errs []error
	for _, pair := range assignment.Pairs() {
		if _, ok := cfg.EmployeeByID(pair[0]); !ok {
			errs = append(errs, &model.InvariantViolation{Rule: "KnownIDs", EmployeeID: pair[0], ShiftID: pair[1], Detail: "unknown employee"})
		}
		if _, ok := idx.Interval(pair[1]); !ok {
			errs = append(errs, &model.InvariantViolation{Rule: "KnownIDs", EmployeeID: pair[0], ShiftID: pair[1], Detail: "unknown shift"})
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, rule := range rules {
		for _, v := range rule.Check(assignment, cfg, idx) {
			errs = append(errs, v)
		}
	}
	return errors.Join(errs...)
}

// pairsFor resolves the assignment into employee and shift pointers in employee id order.
// Unknown ids are skipped, Verify reports them separately.
func pairsFor(assignment model.Assignment, cfg *model.SchedulingConfig, fn func(e *model.Employee, shifts []*model.Shift)) {
	ids := make([]string, 0, len(assignment))
	for id := range assignment {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		e, ok := cfg.EmployeeByID(id)
		if !ok {
			continue
		}
		shifts := make([]*model.Shift, 0, len(assignment[id]))
		for _, shiftID := range assignment[id] {
			if s, ok := cfg.ShiftByID(shiftID); ok {
				shifts = append(shifts, s)
			}
		}
		fn(e, shifts)
	}
}

// CouldEverTake reports whether the pairing passes the rules that do not depend on other
// assignments. Every feasible candidate satisfies it, so it is safe for lower bounds.
func CouldEverTake(employee *model.Employee, shift *model.Shift, idx *timeindex.Index) bool {
	return SkillEligible(employee, shift) &&
		idx.ShiftHours(shift.ID) <= employee.MaxHours &&
		employee.AvailableFor(shift.Start, shift.End)
}
