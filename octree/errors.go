package octree

import (
	"errors"
	"fmt"

	"github.com/wkalt/dagtree/implementation"
)

/*
Errors that can be returned by the octree package. CapacityExceededError and
ConsistencyError are fatal: a tree that has returned either should be
discarded.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrFinalized is returned by writes after EndFinalization.
var ErrFinalized = errors.New("tree is finalized")

// ErrUnsupported is returned by operations this representation does not
// provide, such as serialization.
var ErrUnsupported = fmt.Errorf("octree: %w", implementation.ErrUnsupported)

// CapacityExceededError is returned when the node array cannot grow to fit
// another block. The volume holds more distinct structure than a 32-bit
// indexed array can address.
type CapacityExceededError struct {
	capacity int
	max      int
}

// Error returns a string representation of the error.
func (e CapacityExceededError) Error() string {
	return fmt.Sprintf("octree too big: node array at %d slots cannot grow past %d", e.capacity, e.max)
}

// Is returns true if the target error is a CapacityExceededError.
func (e CapacityExceededError) Is(target error) bool {
	_, ok := target.(CapacityExceededError)
	return ok
}

// ConsistencyError is returned when a node references a sub-index that does
// not exist. It indicates corruption or an allocator bug.
type ConsistencyError struct {
	ref        int32
	registered int
}

// Error returns a string representation of the error.
func (e ConsistencyError) Error() string {
	return fmt.Sprintf("sub-index %d out of range [1, %d] - tree is corrupt", e.ref, e.registered)
}

// Is returns true if the target error is a ConsistencyError.
func (e ConsistencyError) Is(target error) bool {
	_, ok := target.(ConsistencyError)
	return ok
}

// OutOfBoundsError is returned when a coordinate falls outside the volume.
type OutOfBoundsError struct {
	x, y, z int
	size    int
}

// Error returns a string representation of the error.
func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("voxel (%d, %d, %d) out of range [0, %d)", e.x, e.y, e.z, e.size)
}

// Is returns true if the target error is an OutOfBoundsError.
func (e OutOfBoundsError) Is(target error) bool {
	_, ok := target.(OutOfBoundsError)
	return ok
}

// InvalidDepthError is returned when a tree is constructed with an
// unsupported depth.
type InvalidDepthError struct {
	depth int
}

func (e InvalidDepthError) Error() string {
	return fmt.Sprintf("invalid depth %d: must be in [%d, %d]", e.depth, MinDepth, MaxDepth)
}

func (e InvalidDepthError) Is(target error) bool {
	_, ok := target.(InvalidDepthError)
	return ok
}

// InvalidTypeError is returned when a type code cannot be stored.
type InvalidTypeError struct {
	typ int
}

func (e InvalidTypeError) Error() string {
	return fmt.Sprintf("invalid type %d", e.typ)
}

func (e InvalidTypeError) Is(target error) bool {
	_, ok := target.(InvalidTypeError)
	return ok
}

// StaleHandleError is returned in strict mode when a handle minted before a
// node array reallocation is used.
type StaleHandleError struct {
	handle  uint64
	current uint64
}

func (e StaleHandleError) Error() string {
	return fmt.Sprintf("stale handle: minted at generation %d, store is at %d", e.handle, e.current)
}

func (e StaleHandleError) Is(target error) bool {
	_, ok := target.(StaleHandleError)
	return ok
}
