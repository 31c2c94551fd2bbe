package roster

import "strings"

// Shift identifies one of the three daily shifts. The set is closed;
// there is no runtime extension point.
type Shift string

const (
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftEvening   Shift = "evening"
)

// ShiftOrder is the fixed order in which shifts are filled within a day.
var ShiftOrder = [3]Shift{ShiftMorning, ShiftAfternoon, ShiftEvening}

// shiftsLexicographic holds the three shifts sorted by name. Used as the
// default ranking when an employee expresses no preference for a day.
var shiftsLexicographic = [3]Shift{ShiftAfternoon, ShiftEvening, ShiftMorning}

// ParseShift canonicalizes a raw shift name (trimmed, lower-cased) and
// reports whether it names a valid shift.
func ParseShift(raw string) (Shift, bool) {
	s := Shift(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.IsValid()
}

func (s Shift) IsValid() bool {
	return s == ShiftMorning || s == ShiftAfternoon || s == ShiftEvening
}

// Day identifies a day of the scheduling week. Closed enumeration.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// WeekDays is the fixed day order the engine walks, Monday first.
var WeekDays = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Day) IsValid() bool {
	for _, day := range WeekDays {
		if d == day {
			return true
		}
	}
	return false
}

// weekDayList renders the valid day names for error messages.
func weekDayList() string {
	names := make([]string, len(WeekDays))
	for i, d := range WeekDays {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
