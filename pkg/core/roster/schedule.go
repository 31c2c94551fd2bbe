package roster

import (
	"bytes"
	"encoding/json"
)

// Schedule maps day -> shift -> assigned employee names in assignment
// order. Built fresh per generation run, never merged with a prior one.
type Schedule map[Day]map[Shift][]string

// NewSchedule returns a schedule with every day and shift present and
// empty. Slots start as empty (not nil) slices so unfilled shifts
// serialize as [] rather than null.
func NewSchedule() Schedule {
	s := make(Schedule, len(WeekDays))
	for _, day := range WeekDays {
		shifts := make(map[Shift][]string, len(ShiftOrder))
		for _, shift := range ShiftOrder {
			shifts[shift] = []string{}
		}
		s[day] = shifts
	}
	return s
}

// AssignmentCounts returns the number of days each assigned employee
// works across the week. An employee double-booked on one day still
// counts each placement.
func (s Schedule) AssignmentCounts() map[string]int {
	counts := make(map[string]int)
	for _, day := range WeekDays {
		for _, shift := range ShiftOrder {
			for _, name := range s[day][shift] {
				counts[name]++
			}
		}
	}
	return counts
}

// MarshalJSON emits days in week order and shifts in processing order.
// Plain map marshalling would sort keys alphabetically, and identical
// input is required to produce byte-identical output.
func (s Schedule) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, day := range WeekDays {
		if i > 0 {
			buf.WriteByte(',')
		}
		dayKey, err := json.Marshal(string(day))
		if err != nil {
			return nil, err
		}
		buf.Write(dayKey)
		buf.WriteString(":{")
		for j, shift := range ShiftOrder {
			if j > 0 {
				buf.WriteByte(',')
			}
			shiftKey, err := json.Marshal(string(shift))
			if err != nil {
				return nil, err
			}
			buf.Write(shiftKey)
			buf.WriteByte(':')
			names := s[day][shift]
			if names == nil {
				names = []string{}
			}
			encoded, err := json.Marshal(names)
			if err != nil {
				return nil, err
			}
			buf.Write(encoded)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
