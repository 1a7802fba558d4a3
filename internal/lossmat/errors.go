package lossmat

import (
	"errors"
	"fmt"
)

// ErrAllZeros reports a loss matrix with no non-zero entries. The
// zero-substitution step cannot derive a substitute value from such a
// matrix, so the render fails before any figure is produced.
var ErrAllZeros = errors.New("loss matrix contains no non-zero entries")

// ParseError describes a text table that could not be parsed into a
// numeric matrix.
type ParseError struct {
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("line %d: invalid value %q: %v", e.Line, e.Token, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
