package sheetsclient

import (
	"fmt"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/workbook"
)

// ValueReader reads raw cell values
type ValueReader interface {
	GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error)
}

// LoadSchedulingConfig reads the employees and shifts tabs of a spreadsheet.
// The tabs use the same columns as the workbook sheets.
func LoadSchedulingConfig(r ValueReader, spreadsheetID, employeesTab, shiftsTab string) (*model.SchedulingConfig, error) {
	employees, err := r.GetValues(spreadsheetID, employeesTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee data: %w", err)
	}
	shifts, err := r.GetValues(spreadsheetID, shiftsTab)
	if err != nil {
		return nil, fmt.Errorf("failed to get shift data: %w", err)
	}

	cfg, err := workbook.ConfigFromRows(toStrings(employees), toStrings(shifts))
	if err != nil {
		return nil, fmt.Errorf("failed to parse spreadsheet input: %w", err)
	}
	return cfg, nil
}

// LoadSchedulingConfig reads scheduling input with this client
func (c *Client) LoadSchedulingConfig(spreadsheetID, employeesTab, shiftsTab string) (*model.SchedulingConfig, error) {
	return LoadSchedulingConfig(c, spreadsheetID, employeesTab, shiftsTab)
}

func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			if cell != nil {
				rows[i][j] = fmt.Sprint(cell)
			}
		}
	}
	return rows
}
