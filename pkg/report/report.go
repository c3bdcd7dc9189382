package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/objective"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// KPIs summarise a roster
type KPIs struct {
	DemandShifts       int     `json:"demand_shifts"`
	CoveredShifts      int     `json:"covered_shifts"`
	CoverageRatio      float64 `json:"coverage_ratio"`
	TotalAssignments   int     `json:"total_assignments"`
	AssignedHours      float64 `json:"assigned_hours"`
	LaborCost          float64 `json:"labor_cost"`
	ShortagePenalty    float64 `json:"shortage_penalty"`
	UtilizationMean    float64 `json:"utilization_mean"`
	UtilizationStdDev  float64 `json:"utilization_stddev"`
	WeekendAssignments int     `json:"weekend_assignments"`
}

// Report is the external rendering of a solve
type Report struct {
	RunID          string           `json:"run_id,omitempty"`
	Status         model.Status     `json:"status"`
	ObjectiveValue float64          `json:"objective_value"`
	Assignments    model.Assignment `json:"assignments"`
	Shortages      model.Shortage   `json:"shortages"`
	KPIs           KPIs             `json:"kpis"`
	NodesExplored  int64            `json:"nodes_explored"`
	ElapsedMS      int64            `json:"elapsed_ms"`
}

// Row is one (employee, shift) pair of a roster
type Row struct {
	EmployeeID   string
	EmployeeName string
	ShiftID      string
	Start        time.Time
	End          time.Time
	Hours        float64
	Cost         float64
}

// Build derives a report from a result and the config it was solved against
func Build(cfg *model.SchedulingConfig, idx *timeindex.Index, result *model.SolveResult) *Report {
	assignments := result.Assignment
	if assignments == nil {
		assignments = model.Assignment{}
	}
	return &Report{
		Status:         result.Status,
		ObjectiveValue: result.ObjectiveValue,
		Assignments:    assignments,
		Shortages:      result.Shortage,
		KPIs:           ComputeKPIs(cfg, idx, result),
		NodesExplored:  result.NodesExplored,
		ElapsedMS:      result.Elapsed.Milliseconds(),
	}
}

// ComputeKPIs measures coverage, hours, cost and how evenly hours are spread.
// Utilization is assigned hours over max hours for each employee with a positive cap.
func ComputeKPIs(cfg *model.SchedulingConfig, idx *timeindex.Index, result *model.SolveResult) KPIs {
	kpis := KPIs{
		LaborCost:       objective.LaborCost(cfg, idx, result.Assignment),
		ShortagePenalty: objective.ShortagePenalty(cfg, result.Shortage),
	}

	for _, s := range cfg.Shifts {
		if s.RequiredEmployees == 0 {
			continue
		}
		kpis.DemandShifts++
		if result.Shortage[s.ID] == 0 {
			kpis.CoveredShifts++
		}
	}
	kpis.CoverageRatio = 1
	if kpis.DemandShifts > 0 {
		kpis.CoverageRatio = float64(kpis.CoveredShifts) / float64(kpis.DemandShifts)
	}

	var utilization []float64
	for _, e := range cfg.Employees {
		hours := 0.0
		for _, id := range result.Assignment[e.ID] {
			hours += idx.ShiftHours(id)
			kpis.TotalAssignments++
			if s, ok := cfg.ShiftByID(id); ok && isWeekend(s.Start) {
				kpis.WeekendAssignments++
			}
		}
		kpis.AssignedHours += hours
		if e.MaxHours > 0 {
			utilization = append(utilization, hours/e.MaxHours)
		}
	}

	if len(utilization) > 0 {
		kpis.UtilizationMean, kpis.UtilizationStdDev = stat.MeanStdDev(utilization, nil)
	}
	if len(utilization) < 2 {
		kpis.UtilizationStdDev = 0
	}
	return kpis
}

func isWeekend(t time.Time) bool {
	day := t.Weekday()
	return day == time.Saturday || day == time.Sunday
}

// Rows lists the roster ordered by shift start, then employee id
func Rows(cfg *model.SchedulingConfig, idx *timeindex.Index, assignment model.Assignment) []Row {
	var rows []Row
	for _, pair := range assignment.Pairs() {
		e, okE := cfg.EmployeeByID(pair[0])
		s, okS := cfg.ShiftByID(pair[1])
		if !okE || !okS {
			continue
		}
		hours := idx.ShiftHours(s.ID)
		rows = append(rows, Row{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			ShiftID:      s.ID,
			Start:        s.Start,
			End:          s.End,
			Hours:        hours,
			Cost:         hours * e.CostPerHour,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Start.Equal(rows[j].Start) {
			return rows[i].Start.Before(rows[j].Start)
		}
		if rows[i].ShiftID != rows[j].ShiftID {
			return rows[i].ShiftID < rows[j].ShiftID
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	return rows
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteText renders the roster, shortages and KPIs as aligned tables
func WriteText(w io.Writer, cfg *model.SchedulingConfig, idx *timeindex.Index, r *Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Status:\t%s\n", r.Status)
	fmt.Fprintf(tw, "Objective:\t%.2f\n", r.ObjectiveValue)
	if r.RunID != "" {
		fmt.Fprintf(tw, "Run:\t%s\n", r.RunID)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "EMPLOYEE\tSHIFT\tSTART\tEND\tHOURS\tCOST")
	for _, row := range Rows(cfg, idx, r.Assignments) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%.2f\n",
			row.EmployeeID, row.ShiftID,
			row.Start.Format("2006-01-02 15:04"), row.End.Format("2006-01-02 15:04"),
			row.Hours, row.Cost)
	}

	var short []string
	for id, n := range r.Shortages {
		if n > 0 {
			short = append(short, id)
		}
	}
	sort.Strings(short)
	if len(short) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "SHIFT\tSHORTAGE")
		for _, id := range short {
			fmt.Fprintf(tw, "%s\t%d\n", id, r.Shortages[id])
		}
	}

	k := r.KPIs
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Coverage:\t%d/%d (%.0f%%)\n", k.CoveredShifts, k.DemandShifts, k.CoverageRatio*100)
	fmt.Fprintf(tw, "Assigned hours:\t%.2f\n", k.AssignedHours)
	fmt.Fprintf(tw, "Labor cost:\t%.2f\n", k.LaborCost)
	fmt.Fprintf(tw, "Shortage penalty:\t%.2f\n", k.ShortagePenalty)
	fmt.Fprintf(tw, "Utilization:\t%.2f ± %.2f\n", k.UtilizationMean, k.UtilizationStdDev)
	fmt.Fprintf(tw, "Weekend assignments:\t%d\n", k.WeekendAssignments)

	return tw.Flush()
}
