package objective

import (
	"math"
	"sort"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/constraints"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

// Bound holds the precomputed lower bound on the cost of finishing shifts from a
// given position in the search order onwards.
//
// For one shift the cheapest possible outcome is the minimum over k of the k cheapest
// pair costs among employees who could ever take it plus the unfilled cost of the
// remaining demand. Costs are separable per shift, so summing those minima never
// exceeds the cost of any completion.
type Bound struct {
	perShift []float64
	suffix   []float64
}

// NewBound computes the per-shift minima for shifts in search order
func NewBound(ev *Evaluator, order []*model.Shift, employees []*model.Employee) *Bound {
	b := &Bound{
		perShift: make([]float64, len(order)),
		suffix:   make([]float64, len(order)+1),
	}

	costs := make([]float64, 0, len(employees))
	for i, s := range order {
		costs = costs[:0]
		for _, e := range employees {
			if constraints.CouldEverTake(e, s, ev.index) {
				costs = append(costs, ev.PairCost(e, s))
			}
		}
		sort.Float64s(costs)
		b.perShift[i] = cheapestCompletion(ev, s, costs)
	}

	for i := len(order) - 1; i >= 0; i-- {
		b.suffix[i] = b.suffix[i+1] + b.perShift[i]
	}
	return b
}

func cheapestCompletion(ev *Evaluator, s *model.Shift, sortedCosts []float64) float64 {
	best := math.Inf(1)
	prefix := 0.0
	for k := 0; k <= min(s.RequiredEmployees, len(sortedCosts)); k++ {
		best = math.Min(best, prefix+ev.UnfilledCost(s, s.RequiredEmployees-k))
		if k < len(sortedCosts) {
			prefix += sortedCosts[k]
		}
	}
	return best
}

// Remaining is the lower bound for shifts at positions next and later
func (b *Bound) Remaining(next int) float64 {
	if next >= len(b.suffix) {
		return 0
	}
	return b.suffix[next]
}

// ShiftMinimum is the lower bound for the shift at a position
func (b *Bound) ShiftMinimum(pos int) float64 {
	return b.perShift[pos]
}

// LowerBound is the partial cost already incurred plus the bound for the remaining shifts
func (b *Bound) LowerBound(partialCost float64, next int) float64 {
	return partialCost + b.Remaining(next)
}
