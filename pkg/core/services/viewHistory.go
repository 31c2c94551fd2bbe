package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/pkg/core/roster"
	"github.com/jakechorley/shiftweek/pkg/db"
)

// ErrRunNotFound is returned when a run id matches no stored schedule run
var ErrRunNotFound = errors.New("no schedule run found")

// HistoryStore defines the database operations needed for viewing past runs
type HistoryStore interface {
	GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error)
	GetScheduleEntries(ctx context.Context, runID string) ([]db.ScheduleEntry, error)
}

// ViewHistory lists stored schedule runs, newest first
func ViewHistory(ctx context.Context, database HistoryStore, logger *zap.Logger) ([]db.ScheduleRun, error) {
	logger.Debug("Fetching schedule runs")

	runs, err := database.GetScheduleRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule runs: %w", err)
	}

	logger.Debug("Found schedule runs", zap.Int("count", len(runs)))
	return runs, nil
}

// ViewRunEntries lists the flattened assignment slots of one run, in day,
// shift and slot order
func ViewRunEntries(ctx context.Context, database HistoryStore, logger *zap.Logger, runID string) ([]db.ScheduleEntry, error) {
	logger.Debug("Fetching schedule entries", zap.String("run_id", runID))

	entries, err := database.GetScheduleEntries(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
	}

	sortEntries(entries)

	logger.Debug("Found schedule entries", zap.Int("count", len(entries)))
	return entries, nil
}

// sortEntries orders entries by week day, then shift processing order,
// then slot. The store returns them grouped but with days sorted
// alphabetically.
func sortEntries(entries []db.ScheduleEntry) {
	dayIdx := make(map[string]int, len(roster.WeekDays))
	for i, d := range roster.WeekDays {
		dayIdx[string(d)] = i
	}
	shiftIdx := make(map[string]int, len(roster.ShiftOrder))
	for i, s := range roster.ShiftOrder {
		shiftIdx[string(s)] = i
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if dayIdx[entries[i].Day] != dayIdx[entries[j].Day] {
			return dayIdx[entries[i].Day] < dayIdx[entries[j].Day]
		}
		if shiftIdx[entries[i].Shift] != shiftIdx[entries[j].Shift] {
			return shiftIdx[entries[i].Shift] < shiftIdx[entries[j].Shift]
		}
		return entries[i].Slot < entries[j].Slot
	})
}
