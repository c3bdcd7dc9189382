package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/services"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/report"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/workbook"
)

// SolveCmd creates the solve command
func SolveCmd(app *AppContext) *cobra.Command {
	var (
		input     string
		maxNodes  int64
		timeLimit time.Duration
		penalty   float64
		format    string
		out       string
		roster    string
		publish   bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a roster and print the report",
		Long: `Loads employees and shifts from the configured input (or --input), finds the
cheapest roster within the search budget and prints the report. The run is
stored when a store is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("format must be text or json, got %q", format)
			}
			if input != "" {
				app.Cfg.Input.Path = input
			}
			if penalty > 0 {
				app.Cfg.Solver.ShortagePenaltyPerEmployee = penalty
			}
			budget := app.Cfg.Budget()
			if maxNodes > 0 {
				budget.MaxNodes = maxNodes
			}
			if timeLimit > 0 {
				budget.TimeLimit = timeLimit
			}

			sheets, err := app.SheetsReader()
			if err != nil {
				return err
			}
			cfg, err := services.LoadInput(app.Ctx, app.Cfg, sheets, app.Logger)
			if err != nil {
				return err
			}

			result, err := services.Solve(app.Ctx, app.Store, nil, app.Logger, cfg, budget)
			if err != nil {
				return err
			}

			if err := writeReport(cmd.OutOrStdout(), out, format, result); err != nil {
				return err
			}

			if roster == "" {
				roster = app.Cfg.Output.RosterPath
			}
			if roster != "" {
				if err := workbook.WriteRoster(roster, result.Config, result.Index, result.Report); err != nil {
					return err
				}
				app.Logger.Info("Roster workbook written", zap.String("path", roster))
			}

			if publish {
				sheetID := app.Cfg.Output.PublishSheetID
				if sheetID == "" {
					return fmt.Errorf("--publish needs output.publishSheetID in the config")
				}
				client, err := app.Sheets()
				if err != nil {
					return err
				}
				if err := client.PublishRoster(sheetID, app.Cfg.Output.PublishTab, result.Config, result.Index, result.Report); err != nil {
					return fmt.Errorf("failed to publish roster: %w", err)
				}
				app.Logger.Info("Roster published",
					zap.String("spreadsheet_id", sheetID),
					zap.String("tab", app.Cfg.Output.PublishTab))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Input file (.xlsx, .json, .yaml), overrides input.path")
	cmd.Flags().Int64Var(&maxNodes, "max-nodes", 0, "Stop after exploring this many search nodes")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "Stop the search after this long (e.g. 30s)")
	cmd.Flags().Float64Var(&penalty, "penalty", 0, "Shortage penalty per missing employee")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Report format: text or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the JSON report to this file")
	cmd.Flags().StringVar(&roster, "roster", "", "Write the roster workbook to this .xlsx file")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the roster to the configured Google Sheet tab")
	return cmd
}

// writeReport prints the report and, when path is set, also saves it as JSON
func writeReport(stdout io.Writer, path, format string, out *services.SolveOutput) error {
	var err error
	if format == "json" {
		err = report.WriteJSON(stdout, out.Report)
	} else {
		err = report.WriteText(stdout, out.Config, out.Index, out.Report)
	}
	if err != nil {
		return err
	}

	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	return report.WriteJSON(f, out.Report)
}
