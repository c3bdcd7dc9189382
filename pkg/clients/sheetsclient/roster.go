package sheetsclient

import (
	"fmt"
	"sort"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/report"
)

const rosterTimeLayout = "Mon Jan 02 2006 15:04"

// RosterWriter is the part of the client used to publish a roster
type RosterWriter interface {
	SheetTitles(spreadsheetID string) ([]string, error)
	CreateSheet(spreadsheetID, sheetTitle string) (int64, error)
	ReplaceValues(spreadsheetID, tab string, values [][]interface{}) error
}

// PublishRoster writes one row per shift to tab, creating the tab when it does not exist.
// An existing tab is overwritten.
func PublishRoster(w RosterWriter, spreadsheetID, tab string, cfg *model.SchedulingConfig, idx *timeindex.Index, r *report.Report) error {
	titles, err := w.SheetTitles(spreadsheetID)
	if err != nil {
		return err
	}

	exists := false
	for _, title := range titles {
		if title == tab {
			exists = true
			break
		}
	}
	if !exists {
		if _, err := w.CreateSheet(spreadsheetID, tab); err != nil {
			return fmt.Errorf("failed to create roster tab: %w", err)
		}
	}

	return w.ReplaceValues(spreadsheetID, tab, RosterValues(cfg, idx, r))
}

// PublishRoster publishes with this client
func (c *Client) PublishRoster(spreadsheetID, tab string, cfg *model.SchedulingConfig, idx *timeindex.Index, r *report.Report) error {
	return PublishRoster(c, spreadsheetID, tab, cfg, idx, r)
}

// RosterValues lays out a roster as Shift, Start, End, Skill, Required, Shortage and
// one Employee column per assigned worker, shifts in start order
func RosterValues(cfg *model.SchedulingConfig, idx *timeindex.Index, r *report.Report) [][]interface{} {
	byShift := make(map[string][]string)
	for _, pair := range r.Assignments.Pairs() {
		name := pair[0]
		if e, ok := cfg.EmployeeByID(pair[0]); ok && e.Name != "" {
			name = e.Name
		}
		byShift[pair[1]] = append(byShift[pair[1]], name)
	}

	widest := 0
	for _, names := range byShift {
		sort.Strings(names)
		widest = max(widest, len(names))
	}

	header := []interface{}{"Shift", "Start", "End", "Skill", "Required", "Shortage"}
	for i := 0; i < widest; i++ {
		header = append(header, fmt.Sprintf("Employee %d", i+1))
	}
	values := [][]interface{}{header}

	for _, id := range idx.Ordered() {
		s, ok := cfg.ShiftByID(id)
		if !ok {
			continue
		}
		row := []interface{}{
			s.ID, s.Start.Format(rosterTimeLayout), s.End.Format(rosterTimeLayout),
			s.RequiredSkill, s.RequiredEmployees, r.Shortages[s.ID],
		}
		names := byShift[s.ID]
		for i := 0; i < widest; i++ {
			if i < len(names) {
				row = append(row, names[i])
			} else {
				row = append(row, "")
			}
		}
		values = append(values, row)
	}
	return values
}
