package commands

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/fp1acm8/modular-shift-scheduler/internal/config"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/clients/sheetsclient"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/services"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/localstore"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Store  db.RunStore
	Logger *zap.Logger
	Ctx    context.Context

	sheetsOnce   sync.Once
	sheetsClient *sheetsclient.Client
	sheetsErr    error
}

// Sheets returns the Google Sheets client, connecting on first use
func (a *AppContext) Sheets() (*sheetsclient.Client, error) {
	a.sheetsOnce.Do(func() {
		a.Logger.Info("Initializing sheets client")
		a.sheetsClient, a.sheetsErr = sheetsclient.NewClient(a.Ctx, a.Cfg.Secrets.GoogleCredentials)
	})
	return a.sheetsClient, a.sheetsErr
}

// SheetsReader returns the sheets client when spreadsheet input is configured, else nil
func (a *AppContext) SheetsReader() (services.SheetsReader, error) {
	if a.Cfg.Input.Path != "" || a.Cfg.Input.SpreadsheetID == "" {
		return nil, nil
	}
	client, err := a.Sheets()
	if err != nil {
		return nil, err
	}
	return client, nil
}

// OpenStore connects the configured run store. It returns nil for the "none" driver.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.RunStore, error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		if cfg.Secrets.DatabaseURL == "" {
			return nil, fmt.Errorf("store driver postgres needs %s", config.EnvDatabaseURL)
		}
		logger.Info("Connecting to database")
		pg, err := postgres.NewDB(ctx, cfg.Secrets.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.RunMigrations(ctx); err != nil {
			pg.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return pg, nil
	case config.StoreSQLite:
		logger.Info("Opening local run store", zap.String("path", cfg.Store.SQLitePath))
		store, err := localstore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, nil
	}
}

// Close releases the store
func (a *AppContext) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn("Failed to close store", zap.Error(err))
		}
	}
}
