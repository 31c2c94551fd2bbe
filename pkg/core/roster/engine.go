package roster

const (
	// MinEmployees is the headcount precondition checked after
	// normalization and before any assignment begins.
	MinEmployees = 6

	// MaxDaysPerWeek caps how many days one employee works per week.
	// Neither fallback relaxes it.
	MaxDaysPerWeek = 5

	// TargetPerShift is the coverage target for every shift on every day.
	TargetPerShift = 2
)

// GenerateSchedule validates and normalizes raw preferences, then runs
// the assignment engine. This is the operation transport layers call.
func GenerateSchedule(raw *RawPreferences) (Schedule, error) {
	table, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return Assign(table)
}

// Assign produces the weekly schedule from a canonical preference table.
//
// The pass is greedy and deterministic: days in week order, shifts in
// processing order, candidates in (rank, tie-broken) order, then two
// progressively relaxed fallbacks. It makes no attempt to optimize; the
// exact output, including the tie-break sequence, is the contract.
func Assign(table *PreferenceTable) (Schedule, error) {
	employees := table.Names()
	if len(employees) < MinEmployees {
		return nil, validationErrorf("", "", "at least %d unique employees are required to generate a schedule (%d per shift per day); add more employees", MinEmployees, TargetPerShift)
	}

	rng := newTieBreaker()
	schedule := NewSchedule()
	assignedDays := make(map[string]int, len(employees))

	for _, day := range WeekDays {
		assignedToday := make(map[string]bool, len(employees))

		for _, shift := range ShiftOrder {
			// Bucket eligible employees by the rank of this shift in their
			// canonical order. The extra bucket holds a shift absent from an
			// employee's ranking; a correct normalizer never yields that,
			// but absence still gets a defined lowest priority.
			buckets := make([][]string, len(ShiftOrder)+1)
			for _, emp := range employees {
				if assignedDays[emp] >= MaxDaysPerWeek || assignedToday[emp] {
					continue
				}
				rank := table.Ranking(emp, day).rankOf(shift)
				buckets[rank] = append(buckets[rank], emp)
			}

			// Flatten ascending by rank, shuffling within each rank.
			var ordered []string
			for _, bucket := range buckets {
				rng.shuffle(bucket)
				ordered = append(ordered, bucket...)
			}

			placed := 0
			for _, emp := range ordered {
				if placed >= TargetPerShift {
					break
				}
				if assignedDays[emp] >= MaxDaysPerWeek || assignedToday[emp] {
					continue
				}
				schedule[day][shift] = append(schedule[day][shift], emp)
				assignedDays[emp]++
				assignedToday[emp] = true
				placed++
			}

			// Fallback 1: relax ranking. Scan in submission order for anyone
			// under the weekly cap and free today.
			if placed < TargetPerShift {
				for _, emp := range employees {
					if placed >= TargetPerShift {
						break
					}
					if assignedDays[emp] < MaxDaysPerWeek && !assignedToday[emp] {
						schedule[day][shift] = append(schedule[day][shift], emp)
						assignedDays[emp]++
						assignedToday[emp] = true
						placed++
					}
				}
			}

			// Fallback 2: additionally relax same-day exclusivity. The one
			// path where an employee may work two shifts in a day; the
			// weekly cap still holds. Submission order is deliberate.
			if placed < TargetPerShift {
				for _, emp := range employees {
					if placed >= TargetPerShift {
						break
					}
					if assignedDays[emp] < MaxDaysPerWeek {
						schedule[day][shift] = append(schedule[day][shift], emp)
						assignedDays[emp]++
						placed++
					}
				}
			}

			// Still short of the target: the pool of under-cap employees is
			// exhausted. Accepted as a structural outcome, not an error.
		}
	}

	return schedule, nil
}
