package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/shiftweek/internal/config"
	"github.com/jakechorley/shiftweek/pkg/core/roster"
	"github.com/jakechorley/shiftweek/pkg/db"
)

// mockScheduleRunStore implements ScheduleRunStore for testing
type mockScheduleRunStore struct {
	insertedRuns    []*db.ScheduleRun
	insertedEntries []db.ScheduleEntry
	insertErr       error
}

func (m *mockScheduleRunStore) InsertScheduleRun(ctx context.Context, run *db.ScheduleRun, entries []db.ScheduleEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.insertedRuns = append(m.insertedRuns, run)
	m.insertedEntries = append(m.insertedEntries, entries...)
	return nil
}

func testConfig() *config.Config {
	return config.Default()
}

// emptyRoster builds raw preferences for n employees with no preferences.
func emptyRoster(t *testing.T, n int) *roster.RawPreferences {
	t.Helper()
	body := "{"
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		week := "{"
		for j, day := range roster.WeekDays {
			if j > 0 {
				week += ","
			}
			week += fmt.Sprintf("%q:null", day)
		}
		week += "}"
		body += fmt.Sprintf(`"Emp%d":%s`, i+1, week)
	}
	body += "}"

	var raw roster.RawPreferences
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return &raw
}

func TestGenerateSchedule_SavesRun(t *testing.T) {
	store := &mockScheduleRunStore{}

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), emptyRoster(t, 6), false)
	require.NoError(t, err)

	assert.True(t, result.Saved)
	assert.Equal(t, 6, result.EmployeeCount)
	require.Len(t, store.insertedRuns, 1)

	run := store.insertedRuns[0]
	assert.Equal(t, result.RunID, run.ID)
	assert.Equal(t, 6, run.EmployeeCount)
	assert.JSONEq(t, string(result.ScheduleJSON), string(run.Schedule))

	// Six employees with a five-day cap fill 30 slots.
	assert.Len(t, store.insertedEntries, 30)
	for _, entry := range store.insertedEntries {
		assert.Equal(t, result.RunID, entry.RunID)
	}
}

func TestGenerateSchedule_DryRunSkipsPersistence(t *testing.T) {
	store := &mockScheduleRunStore{}

	result, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), emptyRoster(t, 6), true)
	require.NoError(t, err)

	assert.False(t, result.Saved)
	assert.Empty(t, store.insertedRuns)
	assert.NotNil(t, result.Schedule)
}

func TestGenerateSchedule_NoDatabase(t *testing.T) {
	result, err := GenerateSchedule(context.Background(), nil, testConfig(), zap.NewNop(), emptyRoster(t, 6), false)
	require.NoError(t, err)

	assert.False(t, result.Saved)
	assert.NotEmpty(t, result.ScheduleJSON)
}

func TestGenerateSchedule_ValidationErrorPropagates(t *testing.T) {
	store := &mockScheduleRunStore{}

	_, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), emptyRoster(t, 5), false)
	require.Error(t, err)

	var verr *roster.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "at least 6 unique employees")
	assert.Empty(t, store.insertedRuns, "nothing is persisted on failure")
}

func TestGenerateSchedule_StoreFailure(t *testing.T) {
	store := &mockScheduleRunStore{insertErr: errors.New("connection refused")}

	_, err := GenerateSchedule(context.Background(), store, testConfig(), zap.NewNop(), emptyRoster(t, 6), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save schedule run")

	var verr *roster.ValidationError
	assert.False(t, errors.As(err, &verr), "store failures are not validation errors")
}

func TestGenerateSchedule_WeekDates(t *testing.T) {
	result, err := GenerateSchedule(context.Background(), nil, testConfig(), zap.NewNop(), emptyRoster(t, 6), true)
	require.NoError(t, err)

	require.Len(t, result.ShiftDates, 7)
	assert.Equal(t, time.Monday, result.WeekStart.Weekday(), "default rule starts weeks on Monday")
	for i, date := range result.ShiftDates {
		assert.Equal(t, result.WeekStart.AddDate(0, 0, i), date)
	}
	assert.False(t, result.WeekStart.Before(time.Now().Truncate(24*time.Hour)))
}

func TestNextWeekStart_InvalidRule(t *testing.T) {
	_, err := nextWeekStart("EVERY OTHER TUESDAY", time.Now())
	require.Error(t, err)
}

func TestNextWeekStart_SundayRule(t *testing.T) {
	start, err := nextWeekStart("FREQ=WEEKLY;BYDAY=SU", time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, start.Weekday())
	assert.Equal(t, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), start)
}
