package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/cmd/cli/commands"
	"github.com/fp1acm8/modular-shift-scheduler/internal/config"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
	app        = &commands.AppContext{}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	app.Ctx = ctx

	rootCmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Shift scheduler - build cost-optimal employee rosters",
		Long: `A CLI for assigning employees to shifts. It finds the cheapest roster that
respects skills, weekly hours and overlaps, trading labor cost against unfilled positions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects scheduler_config.<env>.yaml and .env.<env>)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.SolveCmd(app))
	rootCmd.AddCommand(commands.ValidateCmd(app))
	rootCmd.AddCommand(commands.SweepCmd(app))
	rootCmd.AddCommand(commands.ExpandCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.TokenCmd(app))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the run store
func initApp() error {
	var err error

	app.Logger, err = logging.InitLogger(env, verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Loading configuration", zap.String("environment", env))
	switch {
	case configPath != "":
		app.Cfg, err = config.LoadFromPath(configPath)
		if err == nil {
			app.Cfg.Secrets = config.LoadSecrets(env)
		}
	default:
		app.Cfg, err = config.LoadWithEnv(env)
		if errors.Is(err, config.ErrConfigNotFound) {
			app.Logger.Debug("No config file found, using defaults")
			app.Cfg, err = config.Default(), nil
			app.Cfg.Secrets = config.LoadSecrets(env)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Store, err = commands.OpenStore(app.Ctx, app.Cfg, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	return nil
}
