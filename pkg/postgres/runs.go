package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/db"
)

const runColumns = `id, created_at, status, objective_value, labor_cost, shortage_penalty,
	penalty_per_employee, nodes_explored, elapsed_ms, employee_count, shift_count`

// InsertRun stores a run and its roster in one transaction
func (d *DB) InsertRun(ctx context.Context, run *db.Run, assignments []db.RunAssignment, shortages []db.RunShortage) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO run (`+runColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, run.ID, run.CreatedAt, run.Status, run.ObjectiveValue, run.LaborCost, run.ShortagePenalty,
			run.PenaltyPerEmployee, run.NodesExplored, run.ElapsedMS, run.EmployeeCount, run.ShiftCount)
		if err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"run_assignment"},
			[]string{"run_id", "employee_id", "shift_id", "position"},
			pgx.CopyFromSlice(len(assignments), func(i int) ([]any, error) {
				a := assignments[i]
				return []any{a.RunID, a.EmployeeID, a.ShiftID, a.Position}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to insert run assignments: %w", err)
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"run_shortage"},
			[]string{"run_id", "shift_id", "shortage"},
			pgx.CopyFromSlice(len(shortages), func(i int) ([]any, error) {
				s := shortages[i]
				return []any{s.RunID, s.ShiftID, s.Shortage}, nil
			}))
		if err != nil {
			return fmt.Errorf("failed to insert run shortages: %w", err)
		}
		return nil
	})
}

// GetRuns returns runs newest first
func (d *DB) GetRuns(ctx context.Context, limit int) ([]db.Run, error) {
	query := `SELECT ` + runColumns + ` FROM run ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its roster, or db.ErrRunNotFound
func (d *DB) GetRun(ctx context.Context, id string) (*db.RunDetail, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+runColumns+` FROM run WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	run, err := pgx.CollectExactlyOneRow(rows, scanRun)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	detail := &db.RunDetail{Run: run}

	rows, err = d.pool.Query(ctx, `
		SELECT run_id, employee_id, shift_id, position
		FROM run_assignment WHERE run_id = $1
		ORDER BY employee_id, position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run assignments: %w", err)
	}
	detail.Assignments, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.RunAssignment, error) {
		var a db.RunAssignment
		err := row.Scan(&a.RunID, &a.EmployeeID, &a.ShiftID, &a.Position)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan run assignments: %w", err)
	}

	rows, err = d.pool.Query(ctx, `
		SELECT run_id, shift_id, shortage
		FROM run_shortage WHERE run_id = $1
		ORDER BY shift_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query run shortages: %w", err)
	}
	detail.Shortages, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.RunShortage, error) {
		var s db.RunShortage
		err := row.Scan(&s.RunID, &s.ShiftID, &s.Shortage)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan run shortages: %w", err)
	}

	return detail, nil
}

func scanRun(row pgx.CollectableRow) (db.Run, error) {
	var r db.Run
	err := row.Scan(&r.ID, &r.CreatedAt, &r.Status, &r.ObjectiveValue, &r.LaborCost, &r.ShortagePenalty,
		&r.PenaltyPerEmployee, &r.NodesExplored, &r.ElapsedMS, &r.EmployeeCount, &r.ShiftCount)
	return r, err
}

var _ db.RunStore = (*DB)(nil)
