package commands

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/services"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run_id]",
		Short: "List stored runs, or show the roster of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("no run store configured: set store.driver to postgres or sqlite")
			}

			if len(args) == 1 {
				detail, err := services.GetRun(app.Ctx, app.Store, app.Logger, args[0])
				if err != nil {
					return err
				}
				return printRunDetail(cmd.OutOrStdout(), detail)
			}

			runs, err := services.ListRuns(app.Ctx, app.Store, app.Logger, limit)
			if err != nil {
				return err
			}
			return printRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list, 0 for all")
	return cmd
}

// statusColor picks the ANSI color used to show a run status
func statusColor(status string) string {
	switch status {
	case "OPTIMAL":
		return "\033[32m"
	case "FEASIBLE":
		return "\033[33m"
	case "TIMEOUT":
		return "\033[35m"
	default:
		return "\033[31m"
	}
}

func printRuns(w io.Writer, runs []db.Run) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored yet.")
		return nil
	}

	const colorReset = "\033[0m"
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tSTATUS\tOBJECTIVE\tEMPLOYEES\tSHIFTS\tNODES")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s%s%s\t%.2f\t%d\t%d\t%d\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			statusColor(r.Status), r.Status, colorReset,
			r.ObjectiveValue, r.EmployeeCount, r.ShiftCount, r.NodesExplored)
	}
	return tw.Flush()
}

func printRunDetail(w io.Writer, detail *db.RunDetail) error {
	r := detail.Run
	fmt.Fprintf(w, "Run:        %s\n", r.ID)
	fmt.Fprintf(w, "Created:    %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Status:     %s\n", r.Status)
	fmt.Fprintf(w, "Objective:  %.2f (labor %.2f + shortage %.2f at %.2f each)\n\n",
		r.ObjectiveValue, r.LaborCost, r.ShortagePenalty, r.PenaltyPerEmployee)

	assignment := detail.Assignment()
	employees := make([]string, 0, len(assignment))
	for id := range assignment {
		employees = append(employees, id)
	}
	sort.Strings(employees)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMPLOYEE\tSHIFTS")
	for _, id := range employees {
		fmt.Fprintf(tw, "%s\t%v\n", id, assignment[id])
	}
	for _, s := range detail.Shortages {
		if s.Shortage > 0 {
			fmt.Fprintf(tw, "(short)\t%s x%d\n", s.ShiftID, s.Shortage)
		}
	}
	return tw.Flush()
}
