package regress

import (
	"errors"
	"fmt"
)

// InsufficientDataError is returned when a series does not leave enough
// aligned rows for the requested horizon. It is a precondition failure and is
// not retryable; callers must surface it as-is.
type InsufficientDataError struct {
	Rows    int // aligned rows available (series length - horizon)
	MinRows int
	Horizon int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient training data: %d aligned rows for horizon %d (minimum %d)",
		e.Rows, e.Horizon, e.MinRows)
}

// IsInsufficientData reports whether err is an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var e *InsufficientDataError
	return errors.As(err, &e)
}
