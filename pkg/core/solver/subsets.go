package solver

import (
	"container/heap"
	"slices"
)

// combo is a k-subset of candidate positions in ascending order
type combo struct {
	positions []int
	// pivot is the lowest position that was moved to reach this combo; only
	// positions at or below it may move next, which generates every subset once
	pivot int
	cost  float64
}

type comboHeap []combo

func (h comboHeap) Len() int { return len(h) }

func (h comboHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return slices.Compare(h[i].positions, h[j].positions) < 0
}

func (h comboHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *comboHeap) Push(x any) { *h = append(*h, x.(combo)) }

func (h *comboHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = combo{}
	*h = old[:n-1]
	return item
}

// subsetEnumerator yields the k-subsets of a cost-sorted candidate list in ascending
// total cost, ties broken by position order.
//
// Starting from positions 0..k-1, a combo's successors advance one position p <= pivot
// by one step. Costs are sorted ascending, so successors never cost less than their
// parent and a min-heap pops subsets in cost order.
type subsetEnumerator struct {
	costs []float64
	size  int
	queue comboHeap
}

func (en *subsetEnumerator) reset(costs []float64, size int) {
	en.costs = costs
	en.size = size
	en.queue = en.queue[:0]

	if size > len(costs) || size < 0 {
		return
	}
	first := combo{positions: make([]int, size), pivot: size - 1}
	for i := range first.positions {
		first.positions[i] = i
		first.cost += costs[i]
	}
	heap.Push(&en.queue, first)
}

func (en *subsetEnumerator) next() (combo, bool) {
	if len(en.queue) == 0 {
		return combo{}, false
	}
	cur := heap.Pop(&en.queue).(combo)

	n := len(en.costs)
	for p := 0; p <= cur.pivot; p++ {
		limit := n
		if p+1 < len(cur.positions) {
			limit = cur.positions[p+1]
		}
		if cur.positions[p]+1 >= limit {
			continue
		}
		succ := combo{positions: slices.Clone(cur.positions), pivot: p}
		succ.positions[p]++
		for _, pos := range succ.positions {
			succ.cost += en.costs[pos]
		}
		heap.Push(&en.queue, succ)
	}
	return cur, true
}
