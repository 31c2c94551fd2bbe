package roster

import (
	"errors"
	"fmt"
)

// ErrInconsistentPreferences indicates the normalizer produced output
// that violates its own shape guarantees (7 days, 3-shift permutation
// per day). It signals a defect in this package rather than bad input,
// and is not a ValidationError; transport layers report it as a
// server-side failure.
var ErrInconsistentPreferences = errors.New("normalized preferences failed consistency check")

// ValidationError reports the first rule violated by raw preference
// input. It carries enough context (employee, day) for the caller to
// localize the fix. Detect it with errors.As.
type ValidationError struct {
	Employee string
	Day      Day
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validationErrorf builds a ValidationError scoped to an employee and day.
// Either context field may be empty for input-level violations.
func validationErrorf(employee string, day Day, format string, args ...any) *ValidationError {
	return &ValidationError{
		Employee: employee,
		Day:      day,
		Message:  fmt.Sprintf(format, args...),
	}
}
