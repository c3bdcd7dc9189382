package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/services"
)

// SweepCmd creates the sweep command
func SweepCmd(app *AppContext) *cobra.Command {
	var (
		input     string
		penalties []float64
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Solve under several shortage penalties and compare shortage against cost",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input != "" {
				app.Cfg.Input.Path = input
			}
			sheets, err := app.SheetsReader()
			if err != nil {
				return err
			}
			cfg, err := services.LoadInput(app.Ctx, app.Cfg, sheets, app.Logger)
			if err != nil {
				return err
			}

			points, err := services.SweepPenalties(app.Ctx, app.Logger, cfg, penalties, app.Cfg.Budget())
			if err != nil {
				return err
			}
			return printSweep(cmd.OutOrStdout(), points)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (.xlsx, .json, .yaml), overrides input.path")
	cmd.Flags().Float64SliceVarP(&penalties, "penalties", "p", []float64{10, 50, 100, 200, 500, 1000}, "Shortage penalties to try")
	return cmd
}

func printSweep(w io.Writer, points []services.SweepPoint) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PENALTY\tSTATUS\tSHORTAGE\tLABOR\tPENALTY COST\tOBJECTIVE\tNODES\t")
	for _, p := range points {
		fmt.Fprintf(tw, "%.2f\t%s\t%d\t%.2f\t%.2f\t%.2f\t%d\t\n",
			p.Penalty, p.Status, p.TotalShortage, p.LaborCost, p.ShortagePenalty, p.ObjectiveValue, p.NodesExplored)
	}
	return tw.Flush()
}
