package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/services"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the input without solving",
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

			rep := services.ValidateInput(cfg)
			printValidation(cmd.OutOrStdout(), rep)
			if !rep.Valid {
				return fmt.Errorf("input has %d issue(s)", len(rep.Issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (.xlsx, .json, .yaml), overrides input.path")
	return cmd
}

func printValidation(w io.Writer, rep *services.ValidationReport) {
	fmt.Fprintf(w, "Employees:    %d\n", rep.Employees)
	fmt.Fprintf(w, "Shifts:       %d\n", rep.Shifts)
	fmt.Fprintf(w, "Total demand: %d\n", rep.TotalDemand)
	fmt.Fprintf(w, "Skills:       %v\n", rep.Skills)
	fmt.Fprintf(w, "Slots:        %d x %d min\n\n", rep.SlotCount, rep.SlotMinutes)

	if rep.Valid {
		fmt.Fprintln(w, "✓ Input is valid")
		return
	}
	fmt.Fprintf(w, "✗ Found %d issue(s):\n", len(rep.Issues))
	for _, issue := range rep.Issues {
		fmt.Fprintf(w, "  - %s\n", issue)
	}
}
