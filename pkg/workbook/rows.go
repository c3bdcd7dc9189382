package workbook

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

var (
	employeeColumns = []string{"id", "name", "skills", "max_hours_per_week"}
	shiftColumns    = []string{"id", "start", "end", "required_skill", "required_employees"}
)

// timeLayouts are tried in order when a cell holds a date-time
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// NormalizeHeader lowercases a column title and joins its words with underscores
func NormalizeHeader(h string) string {
	return strings.ToLower(strings.Join(strings.Fields(h), "_"))
}

type table struct {
	columns map[string]int
	rows    [][]string
}

func newTable(sheet string, rows [][]string, required []string) (*table, error) {
	if len(rows) == 0 {
		return nil, model.NewValidationError(sheet, "sheet is empty")
	}
	t := &table{columns: make(map[string]int), rows: rows[1:]}
	for i, h := range rows[0] {
		t.columns[NormalizeHeader(h)] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, model.NewValidationError(sheet, "missing required columns: %s", strings.Join(missing, ", "))
	}
	return t, nil
}

// cell returns the trimmed value of col in row, or "" when the row is short or the column absent
func (t *table) cell(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseEmployees reads an Employees table. The first row is the header; skills are comma separated.
func ParseEmployees(rows [][]string) ([]model.Employee, error) {
	t, err := newTable("Employees", rows, employeeColumns)
	if err != nil {
		return nil, err
	}

	verr := &model.ValidationError{}
	var employees []model.Employee
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		field := fmt.Sprintf("Employees row %d", i+2)

		e := model.Employee{
			ID:     t.cell(row, "id"),
			Name:   t.cell(row, "name"),
			Skills: strings.Split(t.cell(row, "skills"), ","),
		}
		if e.MaxHours, err = parseFloat(t.cell(row, "max_hours_per_week"), 0); err != nil {
			verr.Add(field, "max_hours_per_week: %v", err)
		}
		if e.CostPerHour, err = parseFloat(t.cell(row, "cost_per_hour"), 0); err != nil {
			verr.Add(field, "cost_per_hour: %v", err)
		}
		employees = append(employees, e)
	}
	if len(employees) == 0 {
		verr.Add("Employees", "sheet must contain at least one employee")
	}
	return employees, verr.OrNil()
}

// ParseShifts reads a Shifts table. The first row is the header; weight is optional.
func ParseShifts(rows [][]string) ([]model.Shift, error) {
	t, err := newTable("Shifts", rows, shiftColumns)
	if err != nil {
		return nil, err
	}

	verr := &model.ValidationError{}
	var shifts []model.Shift
	for i, row := range t.rows {
		if blank(row) {
			continue
		}
		field := fmt.Sprintf("Shifts row %d", i+2)

		s := model.Shift{
			ID:            t.cell(row, "id"),
			RequiredSkill: t.cell(row, "required_skill"),
		}
		if s.Start, err = parseTime(t.cell(row, "start")); err != nil {
			verr.Add(field, "start: %v", err)
		}
		if s.End, err = parseTime(t.cell(row, "end")); err != nil {
			verr.Add(field, "end: %v", err)
		}
		if s.RequiredEmployees, err = strconv.Atoi(t.cell(row, "required_employees")); err != nil {
			verr.Add(field, "required_employees: %v", err)
		}
		if s.Weight, err = parseFloat(t.cell(row, "weight"), model.DefaultShiftWeight); err != nil {
			verr.Add(field, "weight: %v", err)
		}
		shifts = append(shifts, s)
	}
	if len(shifts) == 0 {
		verr.Add("Shifts", "sheet must contain at least one row")
	}
	return shifts, verr.OrNil()
}

func parseFloat(v string, fallback float64) (float64, error) {
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(v, 64)
}

// parseTime accepts the textual layouts above or a raw spreadsheet date serial
func parseTime(v string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return t.Round(time.Minute), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date-time %q", v)
}

// ConfigFromRows assembles a config from raw Employees and Shifts tables
func ConfigFromRows(employeeRows, shiftRows [][]string) (*model.SchedulingConfig, error) {
	employees, errE := ParseEmployees(employeeRows)
	shifts, errS := ParseShifts(shiftRows)
	if err := joinValidation(errE, errS); err != nil {
		return nil, err
	}
	return &model.SchedulingConfig{Employees: employees, Shifts: shifts}, nil
}

func joinValidation(errs ...error) error {
	merged := &model.ValidationError{}
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *model.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		merged.Issues = append(merged.Issues, verr.Issues...)
	}
	return merged.OrNil()
}
