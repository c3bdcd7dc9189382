package model

import (
	"sort"
	"time"
)

// Status is the terminal state of a solve
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusFeasible   Status = "FEASIBLE"
	StatusInfeasible Status = "INFEASIBLE"
	StatusTimeout    Status = "TIMEOUT"
)

// Assignment maps employee id to the shift ids assigned to that employee
type Assignment map[string][]string

// Pairs returns every (employee, shift) pair ordered by employee id then shift order
func (a Assignment) Pairs() [][2]string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var pairs [][2]string
	for _, id := range ids {
		for _, shiftID := range a[id] {
			pairs = append(pairs, [2]string{id, shiftID})
		}
	}
	return pairs
}

// AssignedCount returns how many employees are assigned to each shift
func (a Assignment) AssignedCount() map[string]int {
	counts := make(map[string]int)
	for _, shifts := range a {
		for _, s := range shifts {
			counts[s]++
		}
	}
	return counts
}

// Shortage maps shift id to unfilled required-employee slots
type Shortage map[string]int

// Total sums shortage over all shifts
func (s Shortage) Total() int {
	total := 0
	for _, v := range s {
		total += v
	}
	return total
}

// ShortageFor computes max(0, required - assigned) for every shift
func ShortageFor(shifts []Shift, a Assignment) Shortage {
	counts := a.AssignedCount()
	shortage := make(Shortage, len(shifts))
	for _, s := range shifts {
		shortage[s.ID] = max(0, s.RequiredEmployees-counts[s.ID])
	}
	return shortage
}

// SolveResult is produced once per solve and not modified afterwards
type SolveResult struct {
	Status          Status        `json:"status"`
	Assignment      Assignment    `json:"assignments"`
	Shortage        Shortage      `json:"shortages"`
	ObjectiveValue  float64       `json:"objective_value"`
	LaborCost       float64       `json:"labor_cost"`
	ShortagePenalty float64       `json:"shortage_penalty"`
	NodesExplored   int64         `json:"nodes_explored"`
	Elapsed         time.Duration `json:"elapsed"`
}
