package ident

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentFormat is matched by every FormatError via errors.Is.
var ErrInvalidIdentFormat = errors.New("invalid ident format")

// FormatError reports a string that does not satisfy the expected grammar.
type FormatError struct {
	// Input is the rejected string.
	Input string

	// Grammar is the grammar that was expected: "regular", "delta" or "any".
	Grammar string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s ensemble ident string: %q", e.Grammar, e.Input)
}

// Is makes errors.Is(err, ErrInvalidIdentFormat) succeed.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidIdentFormat
}

// IsFormatError returns true if err is or wraps a FormatError.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrInvalidIdentFormat)
}
