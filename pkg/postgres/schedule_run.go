package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/shiftweek/pkg/db"
)

// InsertScheduleRun stores a run together with its flattened entries in
// one transaction.
func (d *DB) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, entries []db.ScheduleEntry) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO schedule_run (id, week_start, employee_count, schedule)
		VALUES ($1, $2, $3, $4)
	`, run.ID, run.WeekStart, run.EmployeeCount, run.Schedule)
	if err != nil {
		return fmt.Errorf("failed to insert schedule run: %w", err)
	}

	for _, entry := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO schedule_entry (id, run_id, day, shift, slot, employee)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, entry.ID, entry.RunID, entry.Day, entry.Shift, entry.Slot, entry.Employee)
		if err != nil {
			return fmt.Errorf("failed to insert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetScheduleRuns retrieves all stored runs, newest first
func (d *DB) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, week_start, employee_count, schedule, created_at
		FROM schedule_run
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule runs: %w", err)
	}
	defer rows.Close()

	var runs []db.ScheduleRun
	for rows.Next() {
		var r db.ScheduleRun
		var weekStart time.Time
		if err := rows.Scan(&r.ID, &weekStart, &r.EmployeeCount, &r.Schedule, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan schedule run: %w", err)
		}
		r.WeekStart = weekStart.Format("2006-01-02")
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule runs: %w", err)
	}

	return runs, nil
}

// GetScheduleEntries retrieves the flattened entries of one run in
// day/shift/slot order.
func (d *DB) GetScheduleEntries(ctx context.Context, runID string) ([]db.ScheduleEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, run_id, day, shift, slot, employee
		FROM schedule_entry
		WHERE run_id = $1
		ORDER BY day, shift, slot
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []db.ScheduleEntry
	for rows.Next() {
		var e db.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Day, &e.Shift, &e.Slot, &e.Employee); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule entries: %w", err)
	}

	return entries, nil
}
