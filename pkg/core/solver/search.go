package solver

import (
	"context"
	"sort"
	"time"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/constraints"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/objective"
)

// incumbent is the best complete candidate found so far
type incumbent struct {
	found      bool
	cost       float64
	shortage   int
	assignment model.Assignment
}

// frame is one decision level: the shift at position level in search order
type frame struct {
	level    int
	shift    *model.Shift
	baseCost float64

	candidates []*model.Employee
	costs      []float64
	size       int
	subsets    subsetEnumerator

	applied []int
}

// search owns all mutable state of one Solve call
type search struct {
	*Solver
	ctx      context.Context
	started  time.Time
	deadline time.Time

	state *constraints.State
	best  incumbent
	nodes int64

	frames []frame
	depth  int
}

func newSearch(ctx context.Context, s *Solver, started time.Time) *search {
	run := &search{
		Solver:  s,
		ctx:     ctx,
		started: started,
		state:   constraints.NewState(s.index, s.cfg.Shifts),
		frames:  make([]frame, len(s.order)),
	}
	if s.opts.Budget.TimeLimit > 0 {
		run.deadline = started.Add(s.opts.Budget.TimeLimit)
	}
	return run
}

// run explores the tree with an explicit stack and reports whether the budget ran out
func (r *search) run() bool {
	r.push(0, 0)
	last := len(r.order) - 1

	for r.depth > 0 {
		f := &r.frames[r.depth-1]
		r.undo(f)

		positions, cost, ok := r.nextSubset(f)
		if !ok {
			r.depth--
			continue
		}
		// only a node about to be explored counts against the budget
		if r.budgetExceeded() {
			return true
		}
		r.apply(f, positions)
		r.nodes++

		if f.level == last {
			r.offer(cost)
			continue
		}
		r.push(f.level+1, cost)
	}
	return false
}

func (r *search) budgetExceeded() bool {
	budget := r.opts.Budget
	if budget.MaxNodes > 0 && r.nodes >= budget.MaxNodes {
		return true
	}
	if !r.deadline.IsZero() && !r.opts.Clock().Before(r.deadline) {
		return true
	}
	select {
	case <-r.ctx.Done():
		return true
	default:
		return false
	}
}

// push enters a decision level, reusing the pooled frame and its buffers
func (r *search) push(level int, baseCost float64) {
	f := &r.frames[level]
	f.level = level
	f.shift = r.order[level]
	f.baseCost = baseCost
	f.applied = f.applied[:0]

	f.candidates = constraints.FeasibleCandidates(r.rules, r.state, r.employees, f.shift, f.candidates)
	f.costs = f.costs[:0]
	for _, e := range f.candidates {
		f.costs = append(f.costs, r.eval.PairCost(e, f.shift))
	}
	if !sort.Float64sAreSorted(f.costs) {
		sortCandidates(f)
	}

	f.size = min(f.shift.RequiredEmployees, len(f.candidates))
	f.subsets.reset(f.costs, f.size)
	r.depth = level + 1
}

// sortCandidates reorders candidates by pair cost when extra terms break the hourly cost order
func sortCandidates(f *frame) {
	order := make([]int, len(f.candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return f.costs[order[i]] < f.costs[order[j]] })

	candidates := make([]*model.Employee, len(order))
	costs := make([]float64, len(order))
	for i, pos := range order {
		candidates[i] = f.candidates[pos]
		costs[i] = f.costs[pos]
	}
	copy(f.candidates, candidates)
	copy(f.costs, costs)
}

// nextSubset returns the next subset of f's candidates worth exploring along with the
// partial cost after applying it. Sizes run from the largest feasible down to zero and
// each size is enumerated in ascending cost. The lower bound of the remaining shifts
// does not depend on the subset, so once one subset of a size is pruned every later
// subset of that size would be too and the size is abandoned. Subsets whose bound ties
// the incumbent are kept so equal-cost rosters reach the tie-break in offer.
func (r *search) nextSubset(f *frame) ([]int, float64, bool) {
	for f.size >= 0 {
		c, ok := f.subsets.next()
		if !ok {
			r.shrink(f)
			continue
		}

		cost := f.baseCost + c.cost + r.eval.UnfilledCost(f.shift, f.shift.RequiredEmployees-f.size)
		if r.best.found && r.worse(r.bound.LowerBound(cost, f.level+1)) {
			r.shrink(f)
			continue
		}
		return c.positions, cost, true
	}
	return nil, 0, false
}

func (r *search) shrink(f *frame) {
	f.size--
	if f.size >= 0 {
		f.subsets.reset(f.costs, f.size)
	}
}

func (r *search) apply(f *frame, positions []int) {
	for _, pos := range positions {
		r.state.Add(f.candidates[pos].ID, f.shift.ID)
	}
	f.applied = append(f.applied[:0], positions...)
}

func (r *search) undo(f *frame) {
	for i := len(f.applied) - 1; i >= 0; i-- {
		r.state.Remove(f.candidates[f.applied[i]].ID, f.shift.ID)
	}
	f.applied = f.applied[:0]
}

// worse reports whether cost is strictly above the incumbent's
func (r *search) worse(cost float64) bool {
	return cost > r.best.cost && !objective.NearlyEqual(cost, r.best.cost)
}

// offer compares a complete candidate against the incumbent
func (r *search) offer(cost float64) {
	if r.best.found && r.worse(cost) {
		return
	}

	assignment := r.state.Snapshot()
	if r.best.found && objective.NearlyEqual(cost, r.best.cost) && !lexLess(assignment, r.best.assignment) {
		return
	}

	r.best = incumbent{
		found:      true,
		cost:       cost,
		shortage:   r.currentShortage(),
		assignment: assignment,
	}

	if r.opts.OnImprovement != nil {
		r.opts.OnImprovement(Improvement{
			Cost:          cost,
			TotalShortage: r.best.shortage,
			Nodes:         r.nodes,
			Elapsed:       r.opts.Clock().Sub(r.started),
		})
	}
}

func (r *search) currentShortage() int {
	total := 0
	for _, s := range r.order {
		total += r.state.Shortage(s)
	}
	return total
}

// lexLess orders assignments by their (employee, shift) pairs, employees in id order
// and each employee's shifts in search order
func lexLess(a, b model.Assignment) bool {
	pa, pb := a.Pairs(), b.Pairs()
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i][0] != pb[i][0] {
			return pa[i][0] < pb[i][0]
		}
		if pa[i][1] != pb[i][1] {
			return pa[i][1] < pb[i][1]
		}
	}
	return len(pa) < len(pb)
}
