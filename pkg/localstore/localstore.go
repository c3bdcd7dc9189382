package localstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
)

// DefaultPath is the SQLite file used when no path is configured
const DefaultPath = "scheduler_runs.db"

// Store keeps solve runs in a local SQLite file
type Store struct {
	gdb *gorm.DB
}

// Open opens or creates the SQLite database at path and migrates the schema.
// ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	// one connection so ":memory:" databases are shared by every query
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access local store connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(&db.Run{}, &db.RunAssignment{}, &db.RunShortage{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return &Store{gdb: gdb}, nil
}

// Close releases the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertRun stores a run and its roster in one transaction
func (s *Store) InsertRun(ctx context.Context, run *db.Run, assignments []db.RunAssignment, shortages []db.RunShortage) error {
	return s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}
		if len(assignments) > 0 {
			if err := tx.CreateInBatches(assignments, 200).Error; err != nil {
				return fmt.Errorf("failed to insert run assignments: %w", err)
			}
		}
		if len(shortages) > 0 {
			if err := tx.CreateInBatches(shortages, 200).Error; err != nil {
				return fmt.Errorf("failed to insert run shortages: %w", err)
			}
		}
		return nil
	})
}

// GetRuns returns runs newest first
func (s *Store) GetRuns(ctx context.Context, limit int) ([]db.Run, error) {
	q := s.gdb.WithContext(ctx).Order("created_at DESC").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var runs []db.Run
	if err := q.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its roster, or db.ErrRunNotFound
func (s *Store) GetRun(ctx context.Context, id string) (*db.RunDetail, error) {
	q := s.gdb.WithContext(ctx)

	var detail db.RunDetail
	if err := q.First(&detail.Run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, db.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	if err := q.Where("run_id = ?", id).Order("employee_id").Order("position").Find(&detail.Assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to query run assignments: %w", err)
	}
	if err := q.Where("run_id = ?", id).Order("shift_id").Find(&detail.Shortages).Error; err != nil {
		return nil, fmt.Errorf("failed to query run shortages: %w", err)
	}
	return &detail, nil
}

var _ db.RunStore = (*Store)(nil)
