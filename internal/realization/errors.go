package realization

import (
	"errors"
	"fmt"
)

// ErrFilterSetInvariantViolation is matched by every InvariantError.
var ErrFilterSetInvariantViolation = errors.New("realization filter set invariant violation")

// InvariantError reports a lookup for a well-formed ident that has no filter.
// It means Synchronize was not called with the snapshot that holds the
// ensemble, which is a programming defect rather than bad input.
type InvariantError struct {
	Ident string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("no realization filter for ensemble %q; synchronize with the current ensemble set first", e.Ident)
}

// Is makes errors.Is(err, ErrFilterSetInvariantViolation) succeed.
func (e *InvariantError) Is(target error) bool {
	return target == ErrFilterSetInvariantViolation
}
