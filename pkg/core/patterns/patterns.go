package patterns

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

// ShiftIDLayout is appended to a pattern id to name each occurrence
const ShiftIDLayout = "20060102T1504"

// Pattern describes a recurring shift. RRule is an RFC 5545 rule; its first
// occurrence comes from Anchor when set, otherwise from a DTSTART in the rule.
type Pattern struct {
	ID                string    `json:"id" yaml:"id" validate:"required"`
	RRule             string    `json:"rrule" yaml:"rrule" validate:"required"`
	Anchor            time.Time `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	DurationMinutes   int       `json:"duration_minutes" yaml:"durationMinutes" validate:"required,min=1"`
	RequiredSkill     string    `json:"required_skill" yaml:"requiredSkill" validate:"required"`
	RequiredEmployees int       `json:"required_employees" yaml:"requiredEmployees" validate:"min=0"`
	Weight            float64   `json:"weight,omitempty" yaml:"weight,omitempty" validate:"min=0"`
}

// Rule parses the pattern's recurrence rule and anchors it
func (p Pattern) Rule() (*rrule.RRule, error) {
	rule, err := rrule.StrToRRule(p.RRule)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rrule for pattern %s: %w", p.ID, err)
	}
	switch {
	case !p.Anchor.IsZero():
		rule.DTStart(p.Anchor)
	case !strings.Contains(strings.ToUpper(p.RRule), "DTSTART"):
		return nil, fmt.Errorf("pattern %s needs an anchor or a DTSTART in its rrule", p.ID)
	}
	return rule, nil
}

// Expand generates one shift per occurrence starting in [from, to), ordered by
// start then id. Shift ids are "<pattern id>-<yyyymmddThhmm>" in UTC.
func Expand(patterns []Pattern, from, to time.Time) ([]model.Shift, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("expansion window end %s must be after start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}

	var shifts []model.Shift
	seen := make(map[string]bool)
	for _, p := range patterns {
		if p.DurationMinutes <= 0 {
			return nil, fmt.Errorf("pattern %s needs a positive duration", p.ID)
		}
		rule, err := p.Rule()
		if err != nil {
			return nil, err
		}

		length := time.Duration(p.DurationMinutes) * time.Minute
		for _, start := range rule.Between(from, to, true) {
			if !start.Before(to) {
				continue
			}
			id := ShiftID(p.ID, start)
			if seen[id] {
				return nil, fmt.Errorf("duplicate expanded shift id %s", id)
			}
			seen[id] = true

			shifts = append(shifts, model.Shift{
				ID:                id,
				Start:             start,
				End:               start.Add(length),
				RequiredSkill:     p.RequiredSkill,
				RequiredEmployees: p.RequiredEmployees,
				Weight:            p.Weight,
			})
		}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Start.Equal(shifts[j].Start) {
			return shifts[i].Start.Before(shifts[j].Start)
		}
		return shifts[i].ID < shifts[j].ID
	})
	return shifts, nil
}

// ShiftID names the occurrence of a pattern starting at start
func ShiftID(patternID string, start time.Time) string {
	return patternID + "-" + start.UTC().Format(ShiftIDLayout)
}
