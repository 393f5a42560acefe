package subdag

import (
	"errors"
	"fmt"
)

// ErrIndexReleased is returned by writes after ReleaseAuxiliaryIndex.
var ErrIndexReleased = errors.New("subdag: auxiliary index released; dag is read-only")

// ErrTooBig is returned when the block array would exceed int32 addressing.
var ErrTooBig = errors.New("subdag: block array exceeds maximum size")

// InvalidTypeError is returned when a type code cannot be encoded as a leaf.
type InvalidTypeError struct {
	Type int
}

func (e InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type %d", e.Type)
}

func (e InvalidTypeError) Is(target error) bool {
	_, ok := target.(InvalidTypeError)
	return ok
}
