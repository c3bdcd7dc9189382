package model

import (
	"sort"
	"strings"
	"time"
)

// Defaults applied by SchedulingConfig.ApplyDefaults
const (
	DefaultSlotMinutes                = 60
	DefaultShortagePenaltyPerEmployee = 100.0
	DefaultShiftWeight                = 1.0
)

// SkillPolicy decides what happens when a shift with demand requires a skill
// that no employee has
type SkillPolicy string

const (
	// SkillPolicyReject fails validation before the search starts
	SkillPolicyReject SkillPolicy = "reject"
	// SkillPolicyShortage lets the search run and report the demand as shortage
	SkillPolicyShortage SkillPolicy = "shortage"
)

// Window is a half-open time range [Start, End)
type Window struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Contains reports whether [start, end) lies entirely inside the window
func (w Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Employee is a worker that may be assigned to shifts
type Employee struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Skills      []string `json:"skills" yaml:"skills"`
	MaxHours    float64  `json:"max_hours" yaml:"maxHours"`
	CostPerHour float64  `json:"cost_per_hour" yaml:"costPerHour"`

	// Availability restricts the employee to shifts inside one of the windows.
	// An empty list means always available.
	Availability []Window `json:"availability,omitempty" yaml:"availability,omitempty"`
}

// HasSkill reports whether the employee holds the given normalized skill
func (e *Employee) HasSkill(skill string) bool {
	for _, s := range e.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// AvailableFor reports whether [start, end) falls inside one of the employee's windows
func (e *Employee) AvailableFor(start, end time.Time) bool {
	if len(e.Availability) == 0 {
		return true
	}
	for _, w := range e.Availability {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}

// Shift is the demand for one time block
type Shift struct {
	ID                string    `json:"id" yaml:"id"`
	Start             time.Time `json:"start" yaml:"start"`
	End               time.Time `json:"end" yaml:"end"`
	RequiredSkill     string    `json:"required_skill" yaml:"requiredSkill"`
	RequiredEmployees int       `json:"required_employees" yaml:"requiredEmployees"`
	Weight            float64   `json:"weight" yaml:"weight"`
}

// Duration returns the length of the shift
func (s *Shift) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SchedulingConfig aggregates the solver input
type SchedulingConfig struct {
	Employees                  []Employee  `json:"employees" yaml:"employees"`
	Shifts                     []Shift     `json:"shifts" yaml:"shifts"`
	SlotMinutes                int         `json:"slot_minutes" yaml:"slotMinutes"`
	ShortagePenaltyPerEmployee float64     `json:"shortage_penalty_per_employee" yaml:"shortagePenaltyPerEmployee"`
	SkillPolicy                SkillPolicy `json:"skill_policy,omitempty" yaml:"skillPolicy,omitempty"`

	// Optional hard rules, off when zero
	MinRestSlots   int  `json:"min_rest_slots,omitempty" yaml:"minRestSlots,omitempty"`
	OneShiftPerDay bool `json:"one_shift_per_day,omitempty" yaml:"oneShiftPerDay,omitempty"`
}

// ApplyDefaults fills zero-valued options with their defaults. A zero penalty means
// "unset"; decoded documents that spell out zero are rejected by UnmarshalJSON and UnmarshalYAML.
func (c *SchedulingConfig) ApplyDefaults() {
	if c.SlotMinutes == 0 {
		c.SlotMinutes = DefaultSlotMinutes
	}
	if c.ShortagePenaltyPerEmployee == 0 {
		c.ShortagePenaltyPerEmployee = DefaultShortagePenaltyPerEmployee
	}
	if c.SkillPolicy == "" {
		c.SkillPolicy = SkillPolicyReject
	}
	for i := range c.Shifts {
		if c.Shifts[i].Weight == 0 {
			c.Shifts[i].Weight = DefaultShiftWeight
		}
	}
}

// Clone returns a deep copy so callers can vary options without sharing slices
func (c *SchedulingConfig) Clone() *SchedulingConfig {
	out := *c
	out.Employees = make([]Employee, len(c.Employees))
	for i, e := range c.Employees {
		e.Skills = append([]string(nil), e.Skills...)
		e.Availability = append([]Window(nil), e.Availability...)
		out.Employees[i] = e
	}
	out.Shifts = append([]Shift(nil), c.Shifts...)
	return &out
}

// EmployeeByID returns the employee with the given id
func (c *SchedulingConfig) EmployeeByID(id string) (*Employee, bool) {
	for i := range c.Employees {
		if c.Employees[i].ID == id {
			return &c.Employees[i], true
		}
	}
	return nil, false
}

// ShiftByID returns the shift with the given id
func (c *SchedulingConfig) ShiftByID(id string) (*Shift, bool) {
	for i := range c.Shifts {
		if c.Shifts[i].ID == id {
			return &c.Shifts[i], true
		}
	}
	return nil, false
}

// AllSkills returns the sorted set of skills held by any employee
func (c *SchedulingConfig) AllSkills() []string {
	seen := make(map[string]bool)
	for _, e := range c.Employees {
		for _, s := range e.Skills {
			seen[s] = true
		}
	}
	skills := make([]string, 0, len(seen))
	for s := range seen {
		skills = append(skills, s)
	}
	sort.Strings(skills)
	return skills
}

// TotalDemand is the sum of required employees across all shifts
func (c *SchedulingConfig) TotalDemand() int {
	total := 0
	for _, s := range c.Shifts {
		total += s.RequiredEmployees
	}
	return total
}

// NormalizeSkill lowercases a skill and strips all whitespace
func NormalizeSkill(skill string) string {
	return strings.ToLower(strings.Join(strings.Fields(skill), ""))
}

// NormalizeSkills normalizes, deduplicates and sorts a skill list, dropping empty entries
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]bool, len(skills))
	out := make([]string, 0, len(skills))
	for _, raw := range skills {
		s := NormalizeSkill(raw)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
