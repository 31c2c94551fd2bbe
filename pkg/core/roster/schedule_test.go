package roster

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_MarshalOrdersDaysAndShifts(t *testing.T) {
	schedule := NewSchedule()
	schedule[Monday][ShiftMorning] = []string{"Ann", "Bea"}

	encoded, err := json.Marshal(schedule)
	require.NoError(t, err)
	text := string(encoded)

	// Week order, not alphabetical: Monday must precede Friday even though
	// "Friday" sorts first.
	assert.Less(t, strings.Index(text, `"Monday"`), strings.Index(text, `"Friday"`))

	lastDay := -1
	for _, day := range WeekDays {
		idx := strings.Index(text, `"`+string(day)+`"`)
		require.Greater(t, idx, lastDay, "day %s out of order", day)
		lastDay = idx
	}

	// Shifts appear in processing order within each day.
	monday := text[strings.Index(text, `"Monday"`):strings.Index(text, `"Tuesday"`)]
	assert.Less(t, strings.Index(monday, `"morning"`), strings.Index(monday, `"afternoon"`))
	assert.Less(t, strings.Index(monday, `"afternoon"`), strings.Index(monday, `"evening"`))
}

func TestSchedule_MarshalEmptyShiftsAsArrays(t *testing.T) {
	encoded, err := json.Marshal(NewSchedule())
	require.NoError(t, err)

	assert.NotContains(t, string(encoded), "null")
	assert.Contains(t, string(encoded), `"morning":[]`)
}

func TestSchedule_MarshalRoundTripsNames(t *testing.T) {
	schedule := NewSchedule()
	schedule[Sunday][ShiftEvening] = []string{"Zoe", "Adam"}

	encoded, err := json.Marshal(schedule)
	require.NoError(t, err)

	var decoded map[string]map[string][]string
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, []string{"Zoe", "Adam"}, decoded["Sunday"]["evening"])
}

func TestSchedule_AssignmentCounts(t *testing.T) {
	schedule := NewSchedule()
	schedule[Monday][ShiftMorning] = []string{"Ann"}
	schedule[Monday][ShiftEvening] = []string{"Ann"}
	schedule[Friday][ShiftMorning] = []string{"Bea"}

	counts := schedule.AssignmentCounts()
	assert.Equal(t, 2, counts["Ann"], "double-booked day counts each placement")
	assert.Equal(t, 1, counts["Bea"])
}
