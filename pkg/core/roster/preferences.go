package roster

import (
	"bytes"
	"encoding/json"
	"sort"
)

// RawPreferences is the loosely-structured scheduling request: employee
// name -> day -> raw preference entry. The order of top-level keys is
// preserved through decoding because the engine's fallback passes scan
// employees in submission order; a plain map would lose it.
type RawPreferences struct {
	names   []string
	entries map[string]RawWeek
}

// Set stores an employee's week entry, keeping first-seen name order.
// A repeated identical name overwrites the earlier entry in place.
func (p *RawPreferences) Set(name string, week RawWeek) {
	if p.entries == nil {
		p.entries = make(map[string]RawWeek)
	}
	if _, exists := p.entries[name]; !exists {
		p.names = append(p.names, name)
	}
	p.entries[name] = week
}

// Names returns employee names in submission order.
func (p *RawPreferences) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

func (p *RawPreferences) Len() int {
	return len(p.names)
}

func (p *RawPreferences) week(name string) RawWeek {
	return p.entries[name]
}

// UnmarshalJSON decodes the top-level mapping with json.Decoder tokens so
// employee order survives. A non-object body is a structural error.
func (p *RawPreferences) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		return validationErrorf("", "", "top-level preferences must be an object mapping employee to preferences")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}

	p.names = nil
	p.entries = make(map[string]RawWeek)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return validationErrorf("", "", "top-level preferences must be an object mapping employee to preferences")
		}
		var week RawWeek
		if err := dec.Decode(&week); err != nil {
			return err
		}
		p.Set(name, week)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// RawWeek holds one employee's raw per-day entries. days is nil when the
// JSON value was not an object; Normalize reports that with the employee
// name attached.
type RawWeek struct {
	days map[string]RawEntry
}

// NewWeek builds a week entry from explicit per-day entries. Intended for
// callers constructing input in code rather than decoding JSON.
func NewWeek(days map[Day]RawEntry) RawWeek {
	m := make(map[string]RawEntry, len(days))
	for day, entry := range days {
		m[string(day)] = entry
	}
	return RawWeek{days: m}
}

func (w *RawWeek) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if !bytes.HasPrefix(trimmed, []byte("{")) {
		w.days = nil
		return nil
	}
	m := make(map[string]RawEntry)
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	w.days = m
	return nil
}

func (w RawWeek) isObject() bool {
	return w.days != nil
}

func (w RawWeek) entry(day Day) (RawEntry, bool) {
	e, ok := w.days[string(day)]
	return e, ok
}

// dayKeys returns the raw day keys sorted, so unknown-day violations are
// reported deterministically regardless of map iteration order.
func (w RawWeek) dayKeys() []string {
	keys := make([]string, 0, len(w.days))
	for k := range w.days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type entryKind int

const (
	entryEmpty entryKind = iota
	entryShift
	entryRanked
	entryPriorities
	entryMalformed
)

// priorityPair is one shift->priority key of the object form, kept in
// document order with its undecoded value so validation can report the
// exact offending text.
type priorityPair struct {
	shift string
	value json.RawMessage
}

// RawEntry is one day's raw preference in any of its accepted shapes:
// absent/null/empty object (no preference), a single shift name, a full
// three-shift ranking, or an object of at most two shift->priority keys.
// Anything else decodes as malformed and is rejected by Normalize.
type RawEntry struct {
	kind   entryKind
	shift  string
	ranked []any
	pairs  []priorityPair
}

// EmptyEntry marks a day with no preference.
func EmptyEntry() RawEntry {
	return RawEntry{kind: entryEmpty}
}

// ShiftEntry marks a single top-choice shift.
func ShiftEntry(name string) RawEntry {
	return RawEntry{kind: entryShift, shift: name}
}

// RankedEntry supplies an already-canonical ranking of all three shifts.
func RankedEntry(shifts ...Shift) RawEntry {
	ranked := make([]any, len(shifts))
	for i, s := range shifts {
		ranked[i] = string(s)
	}
	return RawEntry{kind: entryRanked, ranked: ranked}
}

// PriorityEntry maps shift names to explicit priorities (lower = more
// preferred). Keys are ordered by name so validation order is stable.
func PriorityEntry(priorities map[string]int) RawEntry {
	names := make([]string, 0, len(priorities))
	for name := range priorities {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]priorityPair, len(names))
	for i, name := range names {
		value, _ := json.Marshal(priorities[name])
		pairs[i] = priorityPair{shift: name, value: value}
	}
	return RawEntry{kind: entryPriorities, pairs: pairs}
}

func (e *RawEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		e.kind = entryEmpty
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		e.kind = entryShift
		e.shift = s
	case '[':
		var arr []any
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return err
		}
		e.kind = entryRanked
		e.ranked = arr
	case '{':
		pairs, err := decodePriorityPairs(trimmed)
		if err != nil {
			return err
		}
		if len(pairs) == 0 {
			e.kind = entryEmpty
			return nil
		}
		e.kind = entryPriorities
		e.pairs = pairs
	default:
		e.kind = entryMalformed
	}
	return nil
}

// decodePriorityPairs walks the object tokens so duplicate keys (legal
// JSON, e.g. "Morning" next to "morning" after canonicalization) survive
// for duplicate detection, in document order.
func decodePriorityPairs(data []byte) ([]priorityPair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var pairs []priorityPair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		pairs = append(pairs, priorityPair{shift: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pairs, nil
}
