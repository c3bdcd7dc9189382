package workbook

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/report"
)

const (
	EmployeesSheet   = "Employees"
	ShiftsSheet      = "Shifts"
	AssignmentsSheet = "Assignments"
	ShortagesSheet   = "Shortages"
	KPIsSheet        = "KPIs"

	cellTimeLayout = "2006-01-02T15:04"
)

// ReadXLSX loads employees and shifts from the Employees and Shifts sheets of a workbook.
// Sheet names match case-insensitively.
func ReadXLSX(path string) (*model.SchedulingConfig, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

// ReadXLSXFrom is ReadXLSX for a workbook held in a stream, such as an upload
func ReadXLSXFrom(r io.Reader) (*model.SchedulingConfig, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) (*model.SchedulingConfig, error) {
	employeeRows, err := sheetRows(f, EmployeesSheet)
	if err != nil {
		return nil, err
	}
	shiftRows, err := sheetRows(f, ShiftsSheet)
	if err != nil {
		return nil, err
	}
	return ConfigFromRows(employeeRows, shiftRows)
}

func sheetRows(f *excelize.File, name string) ([][]string, error) {
	for _, sheet := range f.GetSheetList() {
		if !strings.EqualFold(sheet, name) {
			continue
		}
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read %s sheet: %w", name, err)
		}
		return rows, nil
	}
	return nil, model.NewValidationError(name, "workbook must contain an %s sheet", name)
}

// WriteInput writes cfg as an input workbook that ReadXLSX accepts
func WriteInput(path string, cfg *model.SchedulingConfig) error {
	f := excelize.NewFile()
	defer f.Close()

	employees := [][]any{{"id", "name", "skills", "max_hours_per_week", "cost_per_hour"}}
	for _, e := range cfg.Employees {
		employees = append(employees, []any{e.ID, e.Name, strings.Join(e.Skills, ","), e.MaxHours, e.CostPerHour})
	}
	shifts := [][]any{{"id", "start", "end", "required_skill", "required_employees", "weight"}}
	for _, s := range cfg.Shifts {
		shifts = append(shifts, []any{
			s.ID, s.Start.Format(cellTimeLayout), s.End.Format(cellTimeLayout),
			s.RequiredSkill, s.RequiredEmployees, s.Weight,
		})
	}

	if err := writeSheets(f, map[string][][]any{EmployeesSheet: employees, ShiftsSheet: shifts}, EmployeesSheet, ShiftsSheet); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteRoster writes the roster, shortages and KPIs of a report to a new workbook
func WriteRoster(path string, cfg *model.SchedulingConfig, idx *timeindex.Index, r *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	assignments := [][]any{{"employee_id", "employee_name", "shift_id", "start", "end", "hours", "cost"}}
	for _, row := range report.Rows(cfg, idx, r.Assignments) {
		assignments = append(assignments, []any{
			row.EmployeeID, row.EmployeeName, row.ShiftID,
			row.Start.Format(cellTimeLayout), row.End.Format(cellTimeLayout),
			row.Hours, row.Cost,
		})
	}

	shortages := [][]any{{"shift_id", "required", "shortage"}}
	for _, s := range cfg.Shifts {
		shortages = append(shortages, []any{s.ID, s.RequiredEmployees, r.Shortages[s.ID]})
	}

	k := r.KPIs
	kpis := [][]any{
		{"metric", "value"},
		{"status", string(r.Status)},
		{"objective_value", r.ObjectiveValue},
		{"coverage_ratio", k.CoverageRatio},
		{"assigned_hours", k.AssignedHours},
		{"labor_cost", k.LaborCost},
		{"shortage_penalty", k.ShortagePenalty},
		{"utilization_mean", k.UtilizationMean},
		{"utilization_stddev", k.UtilizationStdDev},
		{"weekend_assignments", k.WeekendAssignments},
		{"nodes_explored", r.NodesExplored},
		{"elapsed_ms", r.ElapsedMS},
		{"generated_at", time.Now().UTC().Format(time.RFC3339)},
	}

	sheets := map[string][][]any{AssignmentsSheet: assignments, ShortagesSheet: shortages, KPIsSheet: kpis}
	if err := writeSheets(f, sheets, AssignmentsSheet, ShortagesSheet, KPIsSheet); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save roster workbook: %w", err)
	}
	return nil
}

// writeSheets fills the named sheets in order, reusing the default first sheet
func writeSheets(f *excelize.File, data map[string][][]any, order ...string) error {
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", name, err)
		}

		for r, row := range data[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", name, r+1, err)
			}
		}
	}
	return nil
}
