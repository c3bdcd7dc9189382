package timeindex

import (
	"fmt"
	"sort"
	"time"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

// Interval is a half-open slot range [Start, End)
type Interval struct {
	Start int
	End   int
}

// Len returns the number of slots covered
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Overlaps reports whether two half-open intervals share a slot
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// Index maps every shift to its slot interval over a shared horizon.
// It is built once per solve and never mutated.
type Index struct {
	slotMinutes int
	slot        time.Duration
	horizon     model.Window
	intervals   map[string]Interval
	order       []string
}

// Build discretizes the shifts into slots of slotMinutes width. The horizon runs
// from the earliest shift start to the latest shift end and the earliest start
// is slot 0. Any boundary off the slot grid is a validation error.
func Build(shifts []model.Shift, slotMinutes int) (*Index, error) {
	if slotMinutes <= 0 {
		return nil, model.NewValidationError("slot_minutes", "must be greater than zero, got %d", slotMinutes)
	}
	if len(shifts) == 0 {
		return nil, model.NewValidationError("shifts", "at least one shift is required")
	}

	slot := time.Duration(slotMinutes) * time.Minute
	start, end := shifts[0].Start, shifts[0].End
	for _, s := range shifts[1:] {
		if s.Start.Before(start) {
			start = s.Start
		}
		if s.End.After(end) {
			end = s.End
		}
	}

	idx := &Index{
		slotMinutes: slotMinutes,
		slot:        slot,
		horizon:     model.Window{Start: start, End: end},
		intervals:   make(map[string]Interval, len(shifts)),
		order:       make([]string, 0, len(shifts)),
	}

	verr := &model.ValidationError{}
	for _, s := range shifts {
		if !s.End.After(s.Start) {
			verr.Add("shift "+s.ID, "end must be after start")
			continue
		}
		startSlot, ok := idx.toSlot(s.Start)
		if !ok {
			verr.Add("shift "+s.ID, "start %s is not aligned to %d minute slots", s.Start.Format(time.RFC3339), slotMinutes)
			continue
		}
		endSlot, ok := idx.toSlot(s.End)
		if !ok {
			verr.Add("shift "+s.ID, "end %s is not aligned to %d minute slots", s.End.Format(time.RFC3339), slotMinutes)
			continue
		}
		if _, dup := idx.intervals[s.ID]; dup {
			verr.Add("shift "+s.ID, "duplicate shift id")
			continue
		}
		idx.intervals[s.ID] = Interval{Start: startSlot, End: endSlot}
		idx.order = append(idx.order, s.ID)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	sort.Slice(idx.order, func(i, j int) bool {
		a, b := idx.intervals[idx.order[i]], idx.intervals[idx.order[j]]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return idx.order[i] < idx.order[j]
	})

	return idx, nil
}

func (idx *Index) toSlot(t time.Time) (int, bool) {
	offset := t.Sub(idx.horizon.Start)
	if offset%idx.slot != 0 {
		return 0, false
	}
	return int(offset / idx.slot), true
}

// Interval returns the slot interval of a shift
func (idx *Index) Interval(shiftID string) (Interval, bool) {
	iv, ok := idx.intervals[shiftID]
	return iv, ok
}

// MustInterval returns the slot interval of a shift known to be indexed
func (idx *Index) MustInterval(shiftID string) Interval {
	iv, ok := idx.intervals[shiftID]
	if !ok {
		panic(fmt.Sprintf("timeindex: shift %q is not indexed", shiftID))
	}
	return iv
}

// Hours converts a slot interval into hours
func (idx *Index) Hours(iv Interval) float64 {
	return idx.SlotHours(iv.Len())
}

// SlotHours converts a slot count into hours
func (idx *Index) SlotHours(slots int) float64 {
	return float64(slots*idx.slotMinutes) / 60
}

// ShiftHours returns the duration of a shift in hours
func (idx *Index) ShiftHours(shiftID string) float64 {
	return idx.Hours(idx.MustInterval(shiftID))
}

// ShiftsOverlap reports whether two indexed shifts share a slot
func (idx *Index) ShiftsOverlap(a, b string) bool {
	return Overlaps(idx.MustInterval(a), idx.MustInterval(b))
}

// SlotMinutes returns the slot width
func (idx *Index) SlotMinutes() int {
	return idx.slotMinutes
}

// Horizon returns the span from the earliest start to the latest end
func (idx *Index) Horizon() model.Window {
	return idx.horizon
}

// SlotCount returns the number of slots in the horizon
func (idx *Index) SlotCount() int {
	return int(idx.horizon.End.Sub(idx.horizon.Start) / idx.slot)
}

// SlotStart returns the instant at which a slot begins
func (idx *Index) SlotStart(slot int) time.Time {
	return idx.horizon.Start.Add(time.Duration(slot) * idx.slot)
}

// Ordered returns shift ids sorted by start slot, ties broken by id
func (idx *Index) Ordered() []string {
	return append([]string(nil), idx.order...)
}
