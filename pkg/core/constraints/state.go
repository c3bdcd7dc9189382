package constraints

import (
	"fmt"
	"sort"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

const dayLayout = "2006-01-02"

// State is the incrementally maintained partial assignment used during search.
// Every update touches a single employee so feasibility checks never rescan the roster.
type State struct {
	index  *timeindex.Index
	shifts map[string]*model.Shift
	rank   map[string]int

	assignedShifts map[string][]string
	intervals      map[string][]timeindex.Interval
	slotsUsed      map[string]int
	days           map[string]map[string]int
	assignedCount  map[string]int
}

// NewState creates an empty state over the given shifts
func NewState(idx *timeindex.Index, shifts []model.Shift) *State {
	st := &State{
		index:          idx,
		shifts:         make(map[string]*model.Shift, len(shifts)),
		rank:           make(map[string]int, len(shifts)),
		assignedShifts: make(map[string][]string),
		intervals:      make(map[string][]timeindex.Interval),
		slotsUsed:      make(map[string]int),
		days:           make(map[string]map[string]int),
		assignedCount:  make(map[string]int, len(shifts)),
	}
	for i := range shifts {
		st.shifts[shifts[i].ID] = &shifts[i]
	}
	for i, id := range idx.Ordered() {
		st.rank[id] = i
	}
	return st
}

// Index returns the time index the state was built over
func (st *State) Index() *timeindex.Index {
	return st.index
}

// Add assigns a shift to an employee
func (st *State) Add(employeeID, shiftID string) {
	iv := st.index.MustInterval(shiftID)

	st.assignedShifts[employeeID] = append(st.assignedShifts[employeeID], shiftID)

	ivs := st.intervals[employeeID]
	pos := sort.Search(len(ivs), func(i int) bool { return ivs[i].Start >= iv.Start })
	ivs = append(ivs, timeindex.Interval{})
	copy(ivs[pos+1:], ivs[pos:])
	ivs[pos] = iv
	st.intervals[employeeID] = ivs

	st.slotsUsed[employeeID] += iv.Len()
	st.assignedCount[shiftID]++

	if shift, ok := st.shifts[shiftID]; ok {
		byDay := st.days[employeeID]
		if byDay == nil {
			byDay = make(map[string]int)
			st.days[employeeID] = byDay
		}
		byDay[shift.Start.Format(dayLayout)]++
	}
}

// Remove undoes a previous Add. Removing a pair that was never added panics.
func (st *State) Remove(employeeID, shiftID string) {
	list := st.assignedShifts[employeeID]
	at := -1
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] == shiftID {
			at = i
			break
		}
	}
	if at < 0 {
		panic(fmt.Sprintf("constraints: shift %q is not assigned to %q", shiftID, employeeID))
	}
	st.assignedShifts[employeeID] = append(list[:at], list[at+1:]...)

	iv := st.index.MustInterval(shiftID)
	ivs := st.intervals[employeeID]
	pos := sort.Search(len(ivs), func(i int) bool { return ivs[i].Start >= iv.Start })
	for pos < len(ivs) && ivs[pos] != iv {
		pos++
	}
	if pos < len(ivs) {
		st.intervals[employeeID] = append(ivs[:pos], ivs[pos+1:]...)
	}

	st.slotsUsed[employeeID] -= iv.Len()
	st.assignedCount[shiftID]--

	if shift, ok := st.shifts[shiftID]; ok {
		st.days[employeeID][shift.Start.Format(dayLayout)]--
	}
}

// Hours returns the hours currently assigned to an employee
func (st *State) Hours(employeeID string) float64 {
	return st.index.SlotHours(st.slotsUsed[employeeID])
}

// Intervals returns the employee's assigned slot intervals sorted by start
func (st *State) Intervals(employeeID string) []timeindex.Interval {
	return st.intervals[employeeID]
}

// ShiftsOf returns the shifts assigned to an employee in assignment order
func (st *State) ShiftsOf(employeeID string) []string {
	return st.assignedShifts[employeeID]
}

// AssignedCount returns how many employees hold the shift
func (st *State) AssignedCount(shiftID string) int {
	return st.assignedCount[shiftID]
}

// ShiftsOnDay returns how many shifts starting on the same day as shift the employee holds
func (st *State) ShiftsOnDay(employeeID string, shift *model.Shift) int {
	return st.days[employeeID][shift.Start.Format(dayLayout)]
}

// Shortage returns the unfilled count of a shift
func (st *State) Shortage(shift *model.Shift) int {
	return max(0, shift.RequiredEmployees-st.assignedCount[shift.ID])
}

// Snapshot copies the current assignment. Employees without shifts are omitted and
// each employee's shifts are ordered by start slot, then id.
func (st *State) Snapshot() model.Assignment {
	out := make(model.Assignment, len(st.assignedShifts))
	for employeeID, list := range st.assignedShifts {
		if len(list) == 0 {
			continue
		}
		shifts := append([]string(nil), list...)
		sort.Slice(shifts, func(i, j int) bool { return st.rank[shifts[i]] < st.rank[shifts[j]] })
		out[employeeID] = shifts
	}
	return out
}
