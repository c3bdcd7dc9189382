package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/internal/config"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/patterns"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/workbook"
)

// ErrNoInput is returned when neither an input file nor a spreadsheet is configured
var ErrNoInput = errors.New("no input configured: set input.path or input.spreadsheetID")

// SheetsReader reads scheduling input from a Google Sheet
type SheetsReader interface {
	LoadSchedulingConfig(spreadsheetID, employeesTab, shiftsTab string) (*model.SchedulingConfig, error)
}

// LoadInput reads employees and shifts from the configured file, or from the configured
// spreadsheet when no file is set. Shifts expanded from the configured patterns are
// appended, then the solver options from the config are applied.
func LoadInput(ctx context.Context, appCfg *config.Config, sheets SheetsReader, logger *zap.Logger) (*model.SchedulingConfig, error) {
	var cfg *model.SchedulingConfig
	var err error

	switch {
	case appCfg.Input.Path != "":
		logger.Debug("Loading input file", zap.String("path", appCfg.Input.Path))
		cfg, err = workbook.LoadFile(appCfg.Input.Path)
	case appCfg.Input.SpreadsheetID != "":
		if sheets == nil {
			return nil, fmt.Errorf("spreadsheet input configured but no sheets client available")
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		logger.Debug("Loading input spreadsheet",
			zap.String("spreadsheet_id", appCfg.Input.SpreadsheetID),
			zap.String("employees_tab", appCfg.Input.EmployeesTab),
			zap.String("shifts_tab", appCfg.Input.ShiftsTab))
		cfg, err = sheets.LoadSchedulingConfig(appCfg.Input.SpreadsheetID, appCfg.Input.EmployeesTab, appCfg.Input.ShiftsTab)
	default:
		return nil, ErrNoInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load input: %w", err)
	}

	if len(appCfg.Patterns) > 0 {
		expanded, err := patterns.Expand(appCfg.Patterns, appCfg.Horizon.From, appCfg.Horizon.To)
		if err != nil {
			return nil, fmt.Errorf("failed to expand shift patterns: %w", err)
		}
		logger.Info("Expanded shift patterns",
			zap.Int("patterns", len(appCfg.Patterns)),
			zap.Int("shifts", len(expanded)))
		cfg.Shifts = append(cfg.Shifts, expanded...)
	}

	appCfg.Apply(cfg)

	logger.Info("Input loaded",
		zap.Int("employees", len(cfg.Employees)),
		zap.Int("shifts", len(cfg.Shifts)))
	return cfg, nil
}
