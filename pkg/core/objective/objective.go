package objective

import (
	"math"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// Term is one additive component of the objective.
// Costs must be non-negative and separable per shift so the lower bound stays valid.
type Term interface {
	// Name returns a human-readable identifier for this term
	Name() string

	// PairCost is the cost of the employee working the shift for the given hours
	PairCost(employee *model.Employee, shift *model.Shift, hours float64) float64

	// UnfilledCost is the cost of leaving unfilled required slots on the shift
	UnfilledCost(shift *model.Shift, unfilled int) float64
}

// LaborTerm charges each employee's hourly cost for the hours worked
type LaborTerm struct{}

func (LaborTerm) Name() string { return "Labor" }

func (LaborTerm) PairCost(employee *model.Employee, shift *model.Shift, hours float64) float64 {
	return employee.CostPerHour * hours
}

func (LaborTerm) UnfilledCost(shift *model.Shift, unfilled int) float64 { return 0 }

// ShortageTerm charges weight x unfilled x penalty per shift
type ShortageTerm struct {
	PenaltyPerEmployee float64
}

func (ShortageTerm) Name() string { return "Shortage" }

func (ShortageTerm) PairCost(employee *model.Employee, shift *model.Shift, hours float64) float64 {
	return 0
}

func (t ShortageTerm) UnfilledCost(shift *model.Shift, unfilled int) float64 {
	return shift.Weight * float64(unfilled) * t.PenaltyPerEmployee
}

// DefaultTerms returns labor cost and shortage penalty for the config
func DefaultTerms(cfg *model.SchedulingConfig) []Term {
	return []Term{
		LaborTerm{},
		ShortageTerm{PenaltyPerEmployee: cfg.ShortagePenaltyPerEmployee},
	}
}

// Evaluator sums a set of terms over a time index
type Evaluator struct {
	terms []Term
	index *timeindex.Index
}

// NewEvaluator creates an Evaluator for the given terms
func NewEvaluator(idx *timeindex.Index, terms ...Term) *Evaluator {
	return &Evaluator{terms: terms, index: idx}
}

// Terms returns the registered terms
func (ev *Evaluator) Terms() []Term {
	return ev.terms
}

// PairCost is the incremental cost of assigning the employee to the shift
func (ev *Evaluator) PairCost(employee *model.Employee, shift *model.Shift) float64 {
	hours := ev.index.ShiftHours(shift.ID)
	total := 0.0
	for _, t := range ev.terms {
		total += t.PairCost(employee, shift, hours)
	}
	return total
}

// UnfilledCost is the cost of the given shortage on a shift
func (ev *Evaluator) UnfilledCost(shift *model.Shift, unfilled int) float64 {
	if unfilled <= 0 {
		return 0
	}
	total := 0.0
	for _, t := range ev.terms {
		total += t.UnfilledCost(shift, unfilled)
	}
	return total
}

// Total recomputes the full objective of an assignment from scratch
func (ev *Evaluator) Total(cfg *model.SchedulingConfig, assignment model.Assignment) float64 {
	total := 0.0
	for _, pair := range assignment.Pairs() {
		e, ok := cfg.EmployeeByID(pair[0])
		if !ok {
			continue
		}
		s, ok := cfg.ShiftByID(pair[1])
		if !ok {
			continue
		}
		total += ev.PairCost(e, s)
	}
	shortage := model.ShortageFor(cfg.Shifts, assignment)
	for i := range cfg.Shifts {
		total += ev.UnfilledCost(&cfg.Shifts[i], shortage[cfg.Shifts[i].ID])
	}
	return total
}

// LaborCost is the sum of cost per hour x hours over every assigned pair
func LaborCost(cfg *model.SchedulingConfig, idx *timeindex.Index, assignment model.Assignment) float64 {
	total := 0.0
	for _, pair := range assignment.Pairs() {
		e, ok := cfg.EmployeeByID(pair[0])
		if !ok {
			continue
		}
		total += e.CostPerHour * idx.ShiftHours(pair[1])
	}
	return total
}

// ShortagePenalty is the sum of weight x shortage x penalty over every shift
func ShortagePenalty(cfg *model.SchedulingConfig, shortage model.Shortage) float64 {
	total := 0.0
	for _, s := range cfg.Shifts {
		total += s.Weight * float64(shortage[s.ID]) * cfg.ShortagePenaltyPerEmployee
	}
	return total
}

// Total is LaborCost plus ShortagePenalty
func Total(cfg *model.SchedulingConfig, idx *timeindex.Index, assignment model.Assignment, shortage model.Shortage) float64 {
	return LaborCost(cfg, idx, assignment) + ShortagePenalty(cfg, shortage)
}

// NearlyEqual compares two costs with a relative tolerance that absorbs summation order
func NearlyEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= 1e-9*scale
}
