package schedule

import (
	"errors"
	"fmt"
)

// UnavailableError reports that a participant's availability could not be
// computed: no linked calendar, no candidate dates, or the upstream fetch
// failed. It is deliberately distinct from a successful derivation with zero
// free time, so callers can tell "no data" from "no free time".
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("availability unavailable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("availability unavailable: %s", e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err (or anything it wraps) is an
// UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
