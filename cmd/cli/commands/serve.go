package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/api"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Cfg.Server.Addr
			}

			sink, err := metrics.NewPromSink(nil)
			if err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}

			secret := []byte(app.Cfg.Secrets.JWTSecret)
			if len(secret) == 0 {
				app.Logger.Warn("SCHEDULER_JWT_SECRET is not set, API routes are unauthenticated")
			}

			gin.SetMode(gin.ReleaseMode)
			router := api.NewRouter(api.Options{
				Store:     app.Store,
				Sink:      sink,
				Logger:    app.Logger,
				Budget:    app.Cfg.Budget(),
				JWTSecret: secret,
			})

			srv := &http.Server{
				Addr:              addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				app.Logger.Info("Server starting", zap.String("addr", addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server failed: %w", err)
			case <-app.Ctx.Done():
				app.Logger.Info("Shutting down server")
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	return cmd
}
