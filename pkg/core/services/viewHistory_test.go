package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/pkg/db"
)

// mockHistoryStore implements HistoryStore for testing
type mockHistoryStore struct {
	runs    []db.ScheduleRun
	entries map[string][]db.ScheduleEntry
	err     error
}

func (m *mockHistoryStore) GetScheduleRuns(ctx context.Context) ([]db.ScheduleRun, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.runs, nil
}

func (m *mockHistoryStore) GetScheduleEntries(ctx context.Context, runID string) ([]db.ScheduleEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[runID], nil
}

func TestViewHistory(t *testing.T) {
	store := &mockHistoryStore{
		runs: []db.ScheduleRun{
			{ID: "run-2", WeekStart: "2026-09-07", EmployeeCount: 9, CreatedAt: time.Now()},
			{ID: "run-1", WeekStart: "2026-08-31", EmployeeCount: 6, CreatedAt: time.Now().Add(-time.Hour)},
		},
	}

	runs, err := ViewHistory(context.Background(), store, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
}

func TestViewHistory_Empty(t *testing.T) {
	runs, err := ViewHistory(context.Background(), &mockHistoryStore{}, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestViewRunEntries(t *testing.T) {
	store := &mockHistoryStore{
		entries: map[string][]db.ScheduleEntry{
			"run-1": {
				// Alphabetical day order, as the store returns them.
				{RunID: "run-1", Day: "Friday", Shift: "morning", Slot: 0, Employee: "Carol"},
				{RunID: "run-1", Day: "Monday", Shift: "evening", Slot: 0, Employee: "Dave"},
				{RunID: "run-1", Day: "Monday", Shift: "morning", Slot: 0, Employee: "Alice"},
				{RunID: "run-1", Day: "Monday", Shift: "morning", Slot: 1, Employee: "Bob"},
			},
		},
	}

	entries, err := ViewRunEntries(context.Background(), store, zap.NewNop(), "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "Alice", entries[0].Employee)
	assert.Equal(t, "Bob", entries[1].Employee)
	assert.Equal(t, "Dave", entries[2].Employee, "Monday comes before Friday")
	assert.Equal(t, "Carol", entries[3].Employee)
}

func TestViewRunEntries_UnknownRun(t *testing.T) {
	_, err := ViewRunEntries(context.Background(), &mockHistoryStore{}, zap.NewNop(), "missing")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestViewHistory_StoreFailure(t *testing.T) {
	store := &mockHistoryStore{err: errors.New("connection refused")}

	_, err := ViewHistory(context.Background(), store, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch schedule runs")
}
