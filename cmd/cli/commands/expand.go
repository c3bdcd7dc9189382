package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/patterns"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/workbook"
)

// ExpandCmd creates the expand command
func ExpandCmd(app *AppContext) *cobra.Command {
	var from, to, out string

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "List the shifts generated by the configured shift patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(app.Cfg.Patterns) == 0 {
				return fmt.Errorf("no shift patterns configured")
			}

			window := app.Cfg.Horizon
			var err error
			if from != "" {
				if window.From, err = time.Parse(time.RFC3339, from); err != nil {
					return fmt.Errorf("--from must be RFC 3339: %w", err)
				}
			}
			if to != "" {
				if window.To, err = time.Parse(time.RFC3339, to); err != nil {
					return fmt.Errorf("--to must be RFC 3339: %w", err)
				}
			}

			shifts, err := patterns.Expand(app.Cfg.Patterns, window.From, window.To)
			if err != nil {
				return err
			}
			app.Logger.Debug("Patterns expanded", zap.Int("shifts", len(shifts)))

			if err := printShifts(cmd.OutOrStdout(), shifts); err != nil {
				return err
			}

			if out != "" {
				if err := workbook.WriteInput(out, &model.SchedulingConfig{Shifts: shifts}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n✓ Wrote %d shifts to %s\n", len(shifts), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start (RFC 3339), overrides horizon.from")
	cmd.Flags().StringVar(&to, "to", "", "Window end, exclusive (RFC 3339), overrides horizon.to")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Also write the shifts to an input workbook")
	return cmd
}

func printShifts(w io.Writer, shifts []model.Shift) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTART\tEND\tSKILL\tREQUIRED")
	for _, s := range shifts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			s.ID, s.Start.Format("Mon 2006-01-02 15:04"), s.End.Format("15:04"), s.RequiredSkill, s.RequiredEmployees)
	}
	return tw.Flush()
}
