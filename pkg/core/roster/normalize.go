package roster

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// implicitPriorityGap separates shifts omitted from a partial priority
// object from every explicit pick: they receive max(explicit)+gap, so
// they always sort after everything the employee actually asked for.
const implicitPriorityGap = 10

// maxExplicitPreferences is the number of shift->priority keys an
// employee may supply per day (primary and secondary).
const maxExplicitPreferences = 2

// ShiftRanking is a canonical preference for one day: all three shifts,
// most preferred first.
type ShiftRanking [3]Shift

// rankOf returns the position of s in the ranking, or len(ShiftOrder)
// when absent. Absence cannot happen for output of Normalize, but the
// engine keeps a lowest-priority bucket for it regardless.
func (r ShiftRanking) rankOf(s Shift) int {
	for i, shift := range r {
		if shift == s {
			return i
		}
	}
	return len(ShiftOrder)
}

// isPermutation reports whether the ranking contains each shift exactly once.
func (r ShiftRanking) isPermutation() bool {
	var seen [3]bool
	for _, s := range r {
		idx := -1
		for i, ordered := range ShiftOrder {
			if s == ordered {
				idx = i
				break
			}
		}
		if idx < 0 || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// WeekRanking maps each day to its canonical shift ranking.
type WeekRanking map[Day]ShiftRanking

// PreferenceTable is the sole artifact the normalizer produces and the
// sole preference input the assignment engine consumes. It preserves the
// submission order and original spelling of employee names.
type PreferenceTable struct {
	names []string
	weeks map[string]WeekRanking
}

// Names returns employee names in submission order.
func (t *PreferenceTable) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

func (t *PreferenceTable) Len() int {
	return len(t.names)
}

// Ranking returns the canonical preference for one employee and day.
func (t *PreferenceTable) Ranking(name string, day Day) ShiftRanking {
	return t.weeks[name][day]
}

// Normalize validates raw preference input and canonicalizes it into a
// full ranking of all three shifts per employee per day. It is a pure
// function: it either returns a complete table or the first rule
// violation, never a partial result.
func Normalize(raw *RawPreferences) (*PreferenceTable, error) {
	if raw == nil || raw.Len() == 0 {
		return nil, validationErrorf("", "", "no employees provided; add at least one employee")
	}

	// Duplicate detection runs over the whole roster before any per-employee
	// validation, comparing names trimmed and lower-cased.
	seen := make(map[string]bool, raw.Len())
	for _, name := range raw.names {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			return nil, validationErrorf(name, "", "duplicate employee names are not allowed (case-insensitive)")
		}
		seen[key] = true
	}

	table := &PreferenceTable{
		names: raw.Names(),
		weeks: make(map[string]WeekRanking, raw.Len()),
	}

	for _, name := range raw.names {
		if strings.TrimSpace(name) == "" {
			return nil, validationErrorf(name, "", "invalid employee name %q: must be a non-empty string", name)
		}

		week := raw.week(name)
		if !week.isObject() {
			return nil, validationErrorf(name, "", "preferences for %q must be an object mapping day to priority object or null", name)
		}

		for _, day := range WeekDays {
			if _, ok := week.entry(day); !ok {
				return nil, validationErrorf(name, day, "employee %q missing preferences for %q", name, day)
			}
		}
		for _, key := range week.dayKeys() {
			if !Day(key).IsValid() {
				return nil, validationErrorf(name, "", "invalid day %q for employee %q: must be one of %s", key, name, weekDayList())
			}
		}

		ranking := make(WeekRanking, len(WeekDays))
		for _, day := range WeekDays {
			entry, _ := week.entry(day)
			dayRanking, err := normalizeEntry(name, day, entry)
			if err != nil {
				return nil, err
			}
			ranking[day] = dayRanking
		}
		table.weeks[name] = ranking
	}

	// Post-normalization shape check. Unreachable given the code above;
	// reported as an internal defect rather than a caller error.
	for _, name := range table.names {
		week := table.weeks[name]
		if len(week) != len(WeekDays) {
			return nil, fmt.Errorf("employee %q has %d normalized days: %w", name, len(week), ErrInconsistentPreferences)
		}
		for _, day := range WeekDays {
			if !week[day].isPermutation() {
				return nil, fmt.Errorf("employee %q has a malformed ranking for %s: %w", name, day, ErrInconsistentPreferences)
			}
		}
	}

	return table, nil
}

// normalizeEntry translates one day's raw entry into a canonical ranking.
func normalizeEntry(employee string, day Day, entry RawEntry) (ShiftRanking, error) {
	switch entry.kind {
	case entryEmpty:
		return shiftsLexicographic, nil

	case entryShift:
		chosen, ok := ParseShift(entry.shift)
		if !ok {
			return ShiftRanking{}, validationErrorf(employee, day, "invalid shift %q for %q on %s", entry.shift, employee, day)
		}
		// Top choice first, the other two demoted to a shared priority so
		// the lexicographic tie-break orders them.
		priorities := map[Shift]int{chosen: 1}
		for _, s := range ShiftOrder {
			if s != chosen {
				priorities[s] = 2
			}
		}
		return rankByPriority(priorities), nil

	case entryRanked:
		return normalizeRanked(employee, day, entry.ranked)

	case entryPriorities:
		return normalizePriorities(employee, day, entry.pairs)

	default:
		return ShiftRanking{}, validationErrorf(employee, day, "preferences for %q on %s must be an object mapping shift to priority integer, a shift name, a full ranking, or null", employee, day)
	}
}

// normalizeRanked passes through a pre-normalized ranking unchanged after
// checking it is an exact permutation of the three shifts.
func normalizeRanked(employee string, day Day, ranked []any) (ShiftRanking, error) {
	var ranking ShiftRanking
	if len(ranked) != len(ShiftOrder) {
		return ShiftRanking{}, validationErrorf(employee, day, "ranked preferences for %q on %s must list all %d shifts", employee, day, len(ShiftOrder))
	}
	for i, v := range ranked {
		name, ok := v.(string)
		if !ok {
			return ShiftRanking{}, validationErrorf(employee, day, "ranked preferences for %q on %s must be shift names", employee, day)
		}
		s := Shift(name)
		if !s.IsValid() {
			return ShiftRanking{}, validationErrorf(employee, day, "invalid shift %q for %q on %s", name, employee, day)
		}
		ranking[i] = s
	}
	if !ranking.isPermutation() {
		return ShiftRanking{}, validationErrorf(employee, day, "ranked preferences for %q on %s must contain each shift exactly once", employee, day)
	}
	return ranking, nil
}

// normalizePriorities validates the shift->priority object form and
// fills implicit priorities for omitted shifts.
func normalizePriorities(employee string, day Day, pairs []priorityPair) (ShiftRanking, error) {
	priorities := make(map[Shift]int, len(ShiftOrder))
	seenShifts := make(map[Shift]bool, maxExplicitPreferences)

	for _, pair := range pairs {
		s, ok := ParseShift(pair.shift)
		if !ok {
			return ShiftRanking{}, validationErrorf(employee, day, "invalid shift %q for %q on %s", pair.shift, employee, day)
		}
		if seenShifts[s] {
			return ShiftRanking{}, validationErrorf(employee, day, "duplicate shift preference %q for %q on %s", pair.shift, employee, day)
		}
		seenShifts[s] = true
		if len(seenShifts) > maxExplicitPreferences {
			return ShiftRanking{}, validationErrorf(employee, day, "only two preferences (primary and secondary) are allowed for %q on %s", employee, day)
		}

		priority, err := parsePriority(pair.value)
		if err != nil {
			return ShiftRanking{}, validationErrorf(employee, day, "priority for %q must be a positive integer, got %s", pair.shift, strings.TrimSpace(string(pair.value)))
		}
		priorities[s] = priority
	}

	// Omitted shifts sort after every explicit pick. Iteration over the
	// fixed shift enumeration keeps this independent of map order.
	implicit := 1
	if len(priorities) > 0 {
		maxExplicit := 0
		for _, p := range priorities {
			if p > maxExplicit {
				maxExplicit = p
			}
		}
		implicit = maxExplicit + implicitPriorityGap
	}
	for _, s := range ShiftOrder {
		if _, ok := priorities[s]; !ok {
			priorities[s] = implicit
		}
	}

	return rankByPriority(priorities), nil
}

// parsePriority accepts only positive JSON integers.
func parsePriority(raw json.RawMessage) (int, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, err
	}
	v, err := n.Int64()
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, fmt.Errorf("priority %d is not positive", v)
	}
	return int(v), nil
}

// rankByPriority orders all three shifts by priority ascending, breaking
// ties by shift name ascending.
func rankByPriority(priorities map[Shift]int) ShiftRanking {
	shifts := make([]Shift, 0, len(ShiftOrder))
	for _, s := range ShiftOrder {
		shifts = append(shifts, s)
	}
	sort.Slice(shifts, func(i, j int) bool {
		if priorities[shifts[i]] != priorities[shifts[j]] {
			return priorities[shifts[i]] < priorities[shifts[j]]
		}
		return shifts[i] < shifts[j]
	})

	var ranking ShiftRanking
	copy(ranking[:], shifts)
	return ranking
}
