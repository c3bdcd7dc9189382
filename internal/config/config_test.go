package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/patterns"
)

func validPattern() patterns.Pattern {
	return patterns.Pattern{
		ID:                "early",
		RRule:             "FREQ=DAILY;BYHOUR=9;BYMINUTE=0;BYSECOND=0",
		Anchor:            time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		DurationMinutes:   240,
		RequiredSkill:     "front",
		RequiredEmployees: 1,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Solver: SolverConfig{
			SlotMinutes:                30,
			ShortagePenaltyPerEmployee: 200,
			SkillPolicy:                "shortage",
			MaxNodes:                   1000,
			TimeLimit:                  5 * time.Second,
		},
		Patterns: []patterns.Pattern{validPattern()},
		Horizon: HorizonConfig{
			From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
		Store: StoreConfig{Driver: StoreSQLite},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_MinimalConfig(t *testing.T) {
	err := Validate(&Config{})
	assert.NoError(t, err)
}

func TestValidate_InvalidFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "unknown skill policy", cfg: Config{Solver: SolverConfig{SkillPolicy: "ignore"}}},
		{name: "negative penalty", cfg: Config{Solver: SolverConfig{ShortagePenaltyPerEmployee: -1}}},
		{name: "slot longer than a day", cfg: Config{Solver: SolverConfig{SlotMinutes: 2000}}},
		{name: "negative rest", cfg: Config{Solver: SolverConfig{MinRestSlots: -2}}},
		{name: "unknown store", cfg: Config{Store: StoreConfig{Driver: "mysql"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestValidate_InvalidRRule(t *testing.T) {
	p := validPattern()
	p.RRule = "INVALID_RRULE_SYNTAX"
	cfg := &Config{
		Patterns: []patterns.Pattern{p},
		Horizon: HorizonConfig{
			From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		},
	}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestValidate_EmptyRRule(t *testing.T) {
	p := validPattern()
	p.RRule = ""

	err := Validate(&Config{Patterns: []patterns.Pattern{p}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_PatternsNeedHorizon(t *testing.T) {
	err := Validate(&Config{Patterns: []patterns.Pattern{validPattern()}})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "horizon")
}

func TestValidate_HorizonOrder(t *testing.T) {
	cfg := &Config{Horizon: HorizonConfig{
		From: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "horizon to must be after from")
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	validConfig := `
input:
  spreadsheetID: "sheet123"
solver:
  slotMinutes: 30
  shortagePenaltyPerEmployee: 150
  skillPolicy: shortage
  oneShiftPerDay: true
  maxNodes: 50000
  timeLimit: 10s
patterns:
  - id: early
    rrule: "DTSTART:20240101T090000Z\nRRULE:FREQ=DAILY"
    durationMinutes: 240
    requiredSkill: front
    requiredEmployees: 2
horizon:
  from: 2024-01-01T00:00:00Z
  to: 2024-01-08T00:00:00Z
store:
  driver: sqlite
  sqlitePath: runs.db
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "sheet123", cfg.Input.SpreadsheetID)
	assert.Equal(t, "Employees", cfg.Input.EmployeesTab)
	assert.Equal(t, "Shifts", cfg.Input.ShiftsTab)
	assert.Equal(t, 30, cfg.Solver.SlotMinutes)
	assert.Equal(t, 10*time.Second, cfg.Solver.TimeLimit)
	assert.Equal(t, int64(50000), cfg.Budget().MaxNodes)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)

	require.Len(t, cfg.Patterns, 1)
	assert.Equal(t, 2, cfg.Patterns[0].RequiredEmployees)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("solver: [unclosed"), 0644))

	_, err := LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_NonExistentFile(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestApply(t *testing.T) {
	cfg := &Config{Solver: SolverConfig{
		ShortagePenaltyPerEmployee: 250,
		SkillPolicy:                "shortage",
		MinRestSlots:               2,
	}}
	sc := &model.SchedulingConfig{SlotMinutes: 15, ShortagePenaltyPerEmployee: 100}

	cfg.Apply(sc)

	assert.Equal(t, 15, sc.SlotMinutes)
	assert.Equal(t, 250.0, sc.ShortagePenaltyPerEmployee)
	assert.Equal(t, model.SkillPolicyShortage, sc.SkillPolicy)
	assert.Equal(t, 2, sc.MinRestSlots)
	assert.False(t, sc.OneShiftPerDay)
}

func TestFindConfigFile_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := findConfigFile(configFileName("missing"))
	assert.True(t, errors.Is(err, ErrConfigNotFound))
}

func TestLoadSecrets(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvJWTSecret, "from-process")
	t.Setenv(EnvDatabaseURL, "")
	require.NoError(t, os.Unsetenv(EnvDatabaseURL))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.test"), []byte(
		"DATABASE_URL=postgres://localhost/scheduler\nSCHEDULER_JWT_SECRET=from-file\n"), 0644))

	secrets := LoadSecrets("test")

	assert.Equal(t, "postgres://localhost/scheduler", secrets.DatabaseURL)
	assert.Equal(t, "from-process", secrets.JWTSecret)
}
