package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func validConfig() *SchedulingConfig {
	cfg := &SchedulingConfig{
		Employees: []Employee{
			{ID: "alice", Name: "Alice", Skills: []string{" Front ", "BACK"}, MaxHours: 20, CostPerHour: 15},
			{ID: "bob", Name: "Bob", Skills: []string{"front"}, MaxHours: 15, CostPerHour: 12},
		},
		Shifts: []Shift{
			{ID: "shift_1", Start: day.Add(9 * time.Hour), End: day.Add(13 * time.Hour), RequiredSkill: "Front", RequiredEmployees: 1},
			{ID: "shift_2", Start: day.Add(13 * time.Hour), End: day.Add(17 * time.Hour), RequiredSkill: "back", RequiredEmployees: 1, Weight: 2},
		},
	}
	cfg.Normalize()
	return cfg
}

func TestNormalize_AppliesDefaultsAndSkills(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, DefaultSlotMinutes, cfg.SlotMinutes)
	assert.Equal(t, DefaultShortagePenaltyPerEmployee, cfg.ShortagePenaltyPerEmployee)
	assert.Equal(t, SkillPolicyReject, cfg.SkillPolicy)
	assert.Equal(t, []string{"back", "front"}, cfg.Employees[0].Skills)
	assert.Equal(t, "front", cfg.Shifts[0].RequiredSkill)
	assert.Equal(t, 1.0, cfg.Shifts[0].Weight)
	assert.Equal(t, 2.0, cfg.Shifts[1].Weight)
}

func TestNormalizeSkill(t *testing.T) {
	assert.Equal(t, "frontdesk", NormalizeSkill("  Front Desk\t"))
	assert.Equal(t, []string{"a", "b"}, NormalizeSkills([]string{"B", "a", " ", "b"}))
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_CollectsIssues(t *testing.T) {
	cfg := validConfig()
	cfg.Employees = append(cfg.Employees, Employee{ID: "alice", MaxHours: -1, CostPerHour: -2})
	cfg.Shifts[1].End = cfg.Shifts[1].Start
	cfg.Shifts[0].RequiredEmployees = -1

	err := cfg.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Issues, 5)
	assert.Contains(t, err.Error(), `duplicate employee id "alice"`)
	assert.Contains(t, err.Error(), "end must be after start")
}

func TestValidate_NoShifts(t *testing.T) {
	cfg := validConfig()
	cfg.Shifts = nil

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one shift is required")
}

func TestValidate_SkillPolicy(t *testing.T) {
	t.Run("reject unknown skill", func(t *testing.T) {
		cfg := validConfig()
		cfg.Shifts[1].RequiredSkill = "surgery"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no employee has required skill "surgery"`)
	})

	t.Run("shortage policy accepts unknown skill", func(t *testing.T) {
		cfg := validConfig()
		cfg.SkillPolicy = SkillPolicyShortage
		cfg.Shifts[1].RequiredSkill = "surgery"

		assert.NoError(t, cfg.Validate())
	})

	t.Run("zero demand is never rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Shifts[1].RequiredSkill = "surgery"
		cfg.Shifts[1].RequiredEmployees = 0

		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty workforce is left to the solver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Employees = nil

		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown policy", func(t *testing.T) {
		cfg := validConfig()
		cfg.SkillPolicy = "maybe"

		assert.Error(t, cfg.Validate())
	})
}

func TestEmployee_AvailableFor(t *testing.T) {
	e := Employee{ID: "a"}
	assert.True(t, e.AvailableFor(day, day.Add(time.Hour)))

	e.Availability = []Window{{Start: day.Add(8 * time.Hour), End: day.Add(12 * time.Hour)}}
	assert.True(t, e.AvailableFor(day.Add(8*time.Hour), day.Add(12*time.Hour)))
	assert.False(t, e.AvailableFor(day.Add(11*time.Hour), day.Add(13*time.Hour)))
}

func TestShortageFor(t *testing.T) {
	cfg := validConfig()
	cfg.Shifts[0].RequiredEmployees = 2

	shortage := ShortageFor(cfg.Shifts, Assignment{"alice": {"shift_1", "shift_2"}})
	assert.Equal(t, Shortage{"shift_1": 1, "shift_2": 0}, shortage)
	assert.Equal(t, 1, shortage.Total())
}

func TestClone_IsIndependent(t *testing.T) {
	cfg := validConfig()
	clone := cfg.Clone()
	clone.Employees[0].Skills[0] = "changed"
	clone.Shifts[0].RequiredEmployees = 9

	assert.Equal(t, "back", cfg.Employees[0].Skills[0])
	assert.Equal(t, 1, cfg.Shifts[0].RequiredEmployees)
}
