package db

import "time"

// ScheduleRun is one persisted schedule generation: the input size, the
// week it covers, and the canonical schedule JSON exactly as returned to
// the caller.
type ScheduleRun struct {
	ID            string
	WeekStart     string // date format
	EmployeeCount int
	Schedule      []byte // canonical schedule JSON
	CreatedAt     time.Time
}

// ScheduleEntry is one assignment slot of a run, flattened for querying:
// which employee works which shift on which day, and in what slot order
// they were placed.
type ScheduleEntry struct {
	ID       string
	RunID    string
	Day      string
	Shift    string
	Slot     int
	Employee string
}
