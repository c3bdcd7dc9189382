package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fp1acm8/modular-shift-scheduler/internal/config"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/api"
)

// TokenCmd creates the token command
func TokenCmd(app *AppContext) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := app.Cfg.Secrets.JWTSecret
			if secret == "" {
				return fmt.Errorf("%s is not set", config.EnvJWTSecret)
			}

			token, err := api.IssueToken([]byte(secret), subject, ttl)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "scheduler-client", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
