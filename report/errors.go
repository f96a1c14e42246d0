package report

import (
	"errors"
	"fmt"
)

/*
Errors that can be returned by the report package.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrCorrupt is returned when a compressed report cannot be opened.
var ErrCorrupt = errors.New("corrupt report")

// ParseError is returned for a single malformed report line. It is
// recoverable: loaders count and log these rather than failing the load.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

// Error returns a string representation of the error.
func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Is returns true if the target error is a ParseError.
func (e ParseError) Is(target error) bool {
	_, ok := target.(ParseError)
	return ok
}

func newParseError(reason string, text string) ParseError {
	return ParseError{Text: text, Reason: reason}
}
