package implementation

import (
	"errors"
	"fmt"
)

/*
Errors returned by the implementation registry.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrUnsupported is returned by factories for operations they do not provide.
var ErrUnsupported = errors.New("operation not supported")

// ErrUnidentified is returned when no registered factory claims an
// implementation.
var ErrUnidentified = errors.New("implementation not produced by any registered factory")

// DuplicateFactoryError is returned when a name is registered twice.
type DuplicateFactoryError struct {
	name string
}

// Error returns a string representation of the error.
func (e DuplicateFactoryError) Error() string {
	return fmt.Sprintf("factory %s already registered", e.name)
}

// Is returns true if the target error is a DuplicateFactoryError.
func (e DuplicateFactoryError) Is(target error) bool {
	_, ok := target.(DuplicateFactoryError)
	return ok
}

// UnknownFactoryError is returned when no factory is registered under a name.
type UnknownFactoryError struct {
	name string
}

// Error returns a string representation of the error.
func (e UnknownFactoryError) Error() string {
	return fmt.Sprintf("unknown implementation %s", e.name)
}

// Is returns true if the target error is an UnknownFactoryError.
func (e UnknownFactoryError) Is(target error) bool {
	_, ok := target.(UnknownFactoryError)
	return ok
}
