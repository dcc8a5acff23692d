package domain

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// FetchError reports a failed feed load: transport failure, non-success
// status, or a body that is not a JSON array. It is fatal for the load cycle.
type FetchError struct {
	Source string
	Status int // 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
