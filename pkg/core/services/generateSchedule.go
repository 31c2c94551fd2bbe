package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/internal/config"
	"github.com/jakechorley/shiftweek/pkg/core/roster"
	"github.com/jakechorley/shiftweek/pkg/db"
)

// GenerateScheduleResult contains the generated schedule and its run metadata
type GenerateScheduleResult struct {
	RunID         string
	WeekStart     time.Time
	ShiftDates    []time.Time
	EmployeeCount int
	Schedule      roster.Schedule
	ScheduleJSON  []byte
	Saved         bool
}

// ScheduleRunStore defines the database operations needed for persisting
// schedule runs
type ScheduleRunStore interface {
	InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, entries []db.ScheduleEntry) error
}

// GenerateSchedule runs the full pipeline: normalize raw preferences,
// check the headcount precondition, assign employees to shifts, and
// persist the run. Persistence is skipped when database is nil or dryRun
// is true; the schedule is produced either way.
func GenerateSchedule(
	ctx context.Context,
	database ScheduleRunStore,
	cfg *config.Config,
	logger *zap.Logger,
	raw *roster.RawPreferences,
	dryRun bool,
) (*GenerateScheduleResult, error) {
	logger.Debug("Starting generateSchedule",
		zap.Int("employee_count", raw.Len()),
		zap.Bool("dry_run", dryRun))

	schedule, err := roster.GenerateSchedule(raw)
	if err != nil {
		return nil, err
	}

	scheduleJSON, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}

	weekStart, err := nextWeekStart(cfg.WeekRule, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve week start: %w", err)
	}

	shiftDates := make([]time.Time, len(roster.WeekDays))
	for i := range roster.WeekDays {
		shiftDates[i] = weekStart.AddDate(0, 0, i)
	}

	result := &GenerateScheduleResult{
		RunID:         uuid.New().String(),
		WeekStart:     weekStart,
		ShiftDates:    shiftDates,
		EmployeeCount: raw.Len(),
		Schedule:      schedule,
		ScheduleJSON:  scheduleJSON,
	}

	logger.Info("Schedule generated",
		zap.String("run_id", result.RunID),
		zap.String("week_start", weekStart.Format("2006-01-02")),
		zap.Int("employee_count", result.EmployeeCount))

	if database == nil || dryRun {
		logger.Debug("Skipping persistence",
			zap.Bool("dry_run", dryRun),
			zap.Bool("database_configured", database != nil))
		return result, nil
	}

	run := &db.ScheduleRun{
		ID:            result.RunID,
		WeekStart:     weekStart.Format("2006-01-02"),
		EmployeeCount: result.EmployeeCount,
		Schedule:      scheduleJSON,
	}

	if err := database.InsertScheduleRun(ctx, run, flattenEntries(result.RunID, schedule)); err != nil {
		return nil, fmt.Errorf("failed to save schedule run: %w", err)
	}
	result.Saved = true

	logger.Info("Schedule run saved", zap.String("run_id", result.RunID))
	return result, nil
}

// nextWeekStart resolves the first occurrence of the configured week rule
// at or after now.
func nextWeekStart(weekRule string, now time.Time) (time.Time, error) {
	rule, err := rrule.StrToRRule(weekRule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week rule %q: %w", weekRule, err)
	}
	rule.DTStart(now.Truncate(24 * time.Hour))

	next := rule.After(now, true)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("week rule %q yields no upcoming occurrence", weekRule)
	}
	return next, nil
}

// flattenEntries turns a schedule into per-slot records for querying.
func flattenEntries(runID string, schedule roster.Schedule) []db.ScheduleEntry {
	var entries []db.ScheduleEntry
	for _, day := range roster.WeekDays {
		for _, shift := range roster.ShiftOrder {
			for slot, employee := range schedule[day][shift] {
				entries = append(entries, db.ScheduleEntry{
					ID:       uuid.New().String(),
					RunID:    runID,
					Day:      string(day),
					Shift:    string(shift),
					Slot:     slot,
					Employee: employee,
				})
			}
		}
	}
	return entries
}
