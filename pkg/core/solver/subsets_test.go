package solver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(costs []float64, size int) ([][]int, []float64) {
	var en subsetEnumerator
	en.reset(costs, size)

	var subsets [][]int
	var totals []float64
	for {
		c, ok := en.next()
		if !ok {
			break
		}
		subsets = append(subsets, c.positions)
		totals = append(totals, c.cost)
	}
	return subsets, totals
}

func TestSubsetEnumerator_AscendingAndComplete(t *testing.T) {
	costs := []float64{1, 2, 3, 10, 11}

	for size := 0; size <= len(costs); size++ {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			subsets, totals := collect(costs, size)

			assert.Len(t, subsets, binomial(len(costs), size))
			for i := 1; i < len(totals); i++ {
				assert.LessOrEqual(t, totals[i-1], totals[i])
			}

			seen := make(map[string]bool)
			for _, s := range subsets {
				key := fmt.Sprint(s)
				assert.False(t, seen[key], "duplicate subset %v", s)
				seen[key] = true
				assert.Len(t, s, size)
			}
		})
	}
}

func TestSubsetEnumerator_TiesFollowPositionOrder(t *testing.T) {
	subsets, _ := collect([]float64{5, 5, 5}, 1)

	assert.Equal(t, [][]int{{0}, {1}, {2}}, subsets)
}

func TestSubsetEnumerator_SizeLargerThanCandidates(t *testing.T) {
	subsets, _ := collect([]float64{1}, 2)

	assert.Empty(t, subsets)
}

func TestSubsetEnumerator_EmptySubset(t *testing.T) {
	subsets, totals := collect([]float64{1, 2}, 0)

	assert.Equal(t, [][]int{{}}, subsets)
	assert.Equal(t, []float64{0}, totals)
}

func binomial(n, k int) int {
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
