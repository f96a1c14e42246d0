package tree

import "fmt"

/*
Errors that can be returned by the tree package.
*/

////////////////////////////////////////////////////////////////////////////////

// NotFoundError is returned when a queried path is not part of the tree.
type NotFoundError struct {
	Path string
}

// Error returns a string representation of the error.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("path not found: %s", e.Path)
}

// Is returns true if the target error is a NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	return ok
}

// EmptyInputError is returned when a report yields no valid records.
type EmptyInputError struct {
	Malformed int
}

// Error returns a string representation of the error.
func (e EmptyInputError) Error() string {
	if e.Malformed > 0 {
		return fmt.Sprintf("report contains no valid records (%d malformed lines)", e.Malformed)
	}
	return "report contains no valid records"
}

// Is returns true if the target error is an EmptyInputError.
func (e EmptyInputError) Is(target error) bool {
	_, ok := target.(EmptyInputError)
	return ok
}

// InvariantViolationError is returned when a reconciled tree fails a size
// invariant. It indicates a builder bug or a size sum that overflows, and the
// tree must not be served.
type InvariantViolationError struct {
	Path   string
	Detail string
}

// Error returns a string representation of the error.
func (e InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violated at %s: %s", e.Path, e.Detail)
}

// Is returns true if the target error is an InvariantViolationError.
func (e InvariantViolationError) Is(target error) bool {
	_, ok := target.(InvariantViolationError)
	return ok
}
