package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/patterns"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/solver"
)

// Environment variables holding secrets
const (
	EnvDatabaseURL       = "DATABASE_URL"
	EnvJWTSecret         = "SCHEDULER_JWT_SECRET"
	EnvGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

// Store drivers
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreNone     = "none"
)

// ErrConfigNotFound is returned when no config file exists in the searched locations
var ErrConfigNotFound = errors.New("config file not found in current directory or home directory")

// InputConfig selects where employees and shifts are read from.
// Path wins over SpreadsheetID when both are set.
type InputConfig struct {
	Path          string `yaml:"path,omitempty"`
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
	EmployeesTab  string `yaml:"employeesTab,omitempty"`
	ShiftsTab     string `yaml:"shiftsTab,omitempty"`
}

// SolverConfig overrides scheduling options of the input when set
type SolverConfig struct {
	SlotMinutes                int           `yaml:"slotMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
	ShortagePenaltyPerEmployee float64       `yaml:"shortagePenaltyPerEmployee,omitempty" validate:"omitempty,gt=0"`
	SkillPolicy                string        `yaml:"skillPolicy,omitempty" validate:"omitempty,oneof=reject shortage"`
	MinRestSlots               int           `yaml:"minRestSlots,omitempty" validate:"min=0"`
	OneShiftPerDay             bool          `yaml:"oneShiftPerDay,omitempty"`
	MaxNodes                   int64         `yaml:"maxNodes,omitempty" validate:"min=0"`
	TimeLimit                  time.Duration `yaml:"timeLimit,omitempty" validate:"min=0"`
}

// HorizonConfig is the [From, To) window shift patterns are expanded over
type HorizonConfig struct {
	From time.Time `yaml:"from,omitempty"`
	To   time.Time `yaml:"to,omitempty"`
}

// OutputConfig names where results are written
type OutputConfig struct {
	RosterPath     string `yaml:"rosterPath,omitempty"`
	ReportPath     string `yaml:"reportPath,omitempty"`
	PublishSheetID string `yaml:"publishSheetID,omitempty"`
	PublishTab     string `yaml:"publishTab,omitempty"`
}

// StoreConfig selects run persistence
type StoreConfig struct {
	Driver     string `yaml:"driver,omitempty" validate:"omitempty,oneof=postgres sqlite none"`
	SQLitePath string `yaml:"sqlitePath,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Secrets are read from the environment, never from the config file
type Secrets struct {
	DatabaseURL       string
	JWTSecret         string
	GoogleCredentials string
}

// Config represents the application configuration
type Config struct {
	Input    InputConfig        `yaml:"input"`
	Solver   SolverConfig       `yaml:"solver"`
	Patterns []patterns.Pattern `yaml:"patterns,omitempty" validate:"dive"`
	Horizon  HorizonConfig      `yaml:"horizon,omitempty"`
	Output   OutputConfig       `yaml:"output,omitempty"`
	Store    StoreConfig        `yaml:"store,omitempty"`
	Server   ServerConfig       `yaml:"server,omitempty"`
	Secrets  Secrets            `yaml:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.Secrets = LoadSecrets("")
	return cfg
}

// Load loads and validates the configuration from scheduler_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads scheduler_config.<env>.yaml, or scheduler_config.yaml when env is empty.
// Secrets are read from .env.<env> and .env when present, then from the process environment.
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(configFileName(env))
	if err != nil {
		return nil, err
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Secrets = LoadSecrets(env)
	return cfg, nil
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadSecrets reads secrets from the environment after loading any .env files.
// Variables already set in the process win over .env values.
func LoadSecrets(env string) Secrets {
	var files []string
	if env != "" {
		files = append(files, ".env."+env)
	}
	files = append(files, ".env")

	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			// godotenv.Load never overrides variables that are already set
			_ = godotenv.Load(f)
		}
	}

	return Secrets{
		DatabaseURL:       os.Getenv(EnvDatabaseURL),
		JWTSecret:         os.Getenv(EnvJWTSecret),
		GoogleCredentials: os.Getenv(EnvGoogleCredentials),
	}
}

// Validate validates the configuration struct, the rrule syntax of each pattern
// and the expansion horizon
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, p := range cfg.Patterns {
		if _, err := p.Rule(); err != nil {
			return fmt.Errorf("invalid rrule in patterns[%d]: %w", i, err)
		}
	}

	if len(cfg.Patterns) > 0 {
		if cfg.Horizon.From.IsZero() || cfg.Horizon.To.IsZero() {
			return fmt.Errorf("config validation failed: horizon from and to are required when patterns are configured")
		}
	}
	if !cfg.Horizon.From.IsZero() && !cfg.Horizon.To.IsZero() && !cfg.Horizon.To.After(cfg.Horizon.From) {
		return fmt.Errorf("config validation failed: horizon to must be after from")
	}

	return nil
}

// Apply copies the solver options that are set onto a scheduling config
func (c *Config) Apply(sc *model.SchedulingConfig) {
	s := c.Solver
	if s.SlotMinutes > 0 {
		sc.SlotMinutes = s.SlotMinutes
	}
	if s.ShortagePenaltyPerEmployee > 0 {
		sc.ShortagePenaltyPerEmployee = s.ShortagePenaltyPerEmployee
	}
	if s.SkillPolicy != "" {
		sc.SkillPolicy = model.SkillPolicy(s.SkillPolicy)
	}
	if s.MinRestSlots > 0 {
		sc.MinRestSlots = s.MinRestSlots
	}
	if s.OneShiftPerDay {
		sc.OneShiftPerDay = true
	}
}

// Budget returns the search limits
func (c *Config) Budget() solver.Budget {
	return solver.Budget{MaxNodes: c.Solver.MaxNodes, TimeLimit: c.Solver.TimeLimit}
}

func (c *Config) applyDefaults() {
	if c.Input.EmployeesTab == "" {
		c.Input.EmployeesTab = "Employees"
	}
	if c.Input.ShiftsTab == "" {
		c.Input.ShiftsTab = "Shifts"
	}
	if c.Output.PublishTab == "" {
		c.Output.PublishTab = "Roster"
	}
	if c.Store.Driver == "" {
		c.Store.Driver = StoreNone
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}

func configFileName(env string) string {
	if env == "" {
		return "scheduler_config.yaml"
	}
	return fmt.Sprintf("scheduler_config.%s.yaml", env)
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(name string) (string, error) {
	// Check current directory
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}
