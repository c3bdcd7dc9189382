package model

import "fmt"

// Normalize canonicalizes skills and applies defaults. It mutates the config.
func (c *SchedulingConfig) Normalize() {
	c.ApplyDefaults()
	for i := range c.Employees {
		c.Employees[i].Skills = NormalizeSkills(c.Employees[i].Skills)
	}
	for i := range c.Shifts {
		c.Shifts[i].RequiredSkill = NormalizeSkill(c.Shifts[i].RequiredSkill)
	}
}

// Validate checks the input shape. Slot alignment is checked when the time index is built.
// All issues are collected into a single *ValidationError.
func (c *SchedulingConfig) Validate() error {
	verr := &ValidationError{}

	if c.SlotMinutes <= 0 {
		verr.Add("slot_minutes", "must be greater than zero, got %d", c.SlotMinutes)
	}
	if c.ShortagePenaltyPerEmployee < 0 {
		verr.Add("shortage_penalty_per_employee", "must be non-negative, got %g", c.ShortagePenaltyPerEmployee)
	}
	if c.MinRestSlots < 0 {
		verr.Add("min_rest_slots", "must be non-negative, got %d", c.MinRestSlots)
	}
	switch c.SkillPolicy {
	case SkillPolicyReject, SkillPolicyShortage:
	default:
		verr.Add("skill_policy", "unknown policy %q", c.SkillPolicy)
	}

	seenEmployees := make(map[string]bool, len(c.Employees))
	for i, e := range c.Employees {
		field := fmt.Sprintf("employees[%d]", i)
		if e.ID == "" {
			verr.Add(field, "id is required")
		} else if seenEmployees[e.ID] {
			verr.Add(field, "duplicate employee id %q", e.ID)
		}
		seenEmployees[e.ID] = true

		if e.MaxHours < 0 {
			verr.Add(field, "max hours must be non-negative, got %g", e.MaxHours)
		}
		if e.CostPerHour < 0 {
			verr.Add(field, "cost per hour must be non-negative, got %g", e.CostPerHour)
		}
		for j, w := range e.Availability {
			if !w.End.After(w.Start) {
				verr.Add(fmt.Sprintf("%s.availability[%d]", field, j), "window end must be after start")
			}
		}
	}

	if len(c.Shifts) == 0 {
		verr.Add("shifts", "at least one shift is required")
	}

	seenShifts := make(map[string]bool, len(c.Shifts))
	for i, s := range c.Shifts {
		field := fmt.Sprintf("shifts[%d]", i)
		if s.ID == "" {
			verr.Add(field, "id is required")
		} else if seenShifts[s.ID] {
			verr.Add(field, "duplicate shift id %q", s.ID)
		}
		seenShifts[s.ID] = true

		if !s.End.After(s.Start) {
			verr.Add(field, "shift %q end must be after start", s.ID)
		}
		if s.RequiredEmployees < 0 {
			verr.Add(field, "required employees must be non-negative, got %d", s.RequiredEmployees)
		}
		if s.Weight <= 0 {
			verr.Add(field, "weight must be positive, got %g", s.Weight)
		}
		if s.RequiredSkill == "" {
			verr.Add(field, "required skill is missing for shift %q", s.ID)
		}
	}

	// An empty workforce is reported by the solver as INFEASIBLE rather than rejected here.
	if c.SkillPolicy == SkillPolicyReject && len(c.Employees) > 0 {
		held := make(map[string]bool)
		for _, skill := range c.AllSkills() {
			held[skill] = true
		}
		for i, s := range c.Shifts {
			if s.RequiredEmployees > 0 && s.RequiredSkill != "" && !held[s.RequiredSkill] {
				verr.Add(fmt.Sprintf("shifts[%d]", i), "no employee has required skill %q", s.RequiredSkill)
			}
		}
	}

	return verr.OrNil()
}
