package octree

import (
	"context"
	"math"

	"github.com/wkalt/dagtree/util/log"
)

/*
The node store is the flat array behind the upper levels of the tree. Each slot
is one node. A slot value v <= 0 is a leaf whose whole cube has type -v; a value
v > 0 is a branch, and v is the offset of the block of eight slots holding its
children. The root is slot 0; slots 1-7 are reserved so that offset 0 is never
a child block.

Blocks are carved off the end of the array and never freed. When the array is
full it is reallocated at 1.5x its length, clamped to the configured maximum.
Each reallocation bumps the store generation so that holders of handles can
tell that the array moved.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	blockSize              = 8
	defaultInitialCapacity = 64

	// maxArrayLength leaves headroom below MaxInt32 for capacity arithmetic.
	maxArrayLength = math.MaxInt32 - 16
)

type nodeStore struct {
	data       []int32
	size       int
	maxLen     int
	generation uint64
}

func newNodeStore(capacity, maxLen int) *nodeStore {
	maxLen = max(min(maxLen, maxArrayLength), blockSize)
	capacity = min(max(capacity, blockSize), maxLen)
	return &nodeStore{
		data:   make([]int32, capacity),
		size:   blockSize,
		maxLen: maxLen,
	}
}

// allocateBlock reserves eight contiguous slots and returns the offset of the
// first.
func (s *nodeStore) allocateBlock(ctx context.Context) (int32, error) {
	if s.size+blockSize > len(s.data) {
		if err := s.grow(ctx); err != nil {
			return 0, err
		}
	}
	offset := s.size
	s.size += blockSize
	return int32(offset), nil
}

func (s *nodeStore) grow(ctx context.Context) error {
	length := len(s.data)
	target := max(int(math.Ceil(float64(length)*1.5)), s.size+blockSize)
	if target > s.maxLen {
		if s.size+blockSize > s.maxLen {
			return CapacityExceededError{capacity: length, max: s.maxLen}
		}
		target = s.maxLen
	}
	data := make([]int32, target)
	copy(data, s.data[:s.size])
	s.data = data
	s.generation++
	log.Debugw(ctx, "grew node array", "from", length, "to", target, "generation", s.generation)
	return nil
}

// subdivide turns the leaf at index into a branch whose eight children carry
// the leaf's value.
func (s *nodeStore) subdivide(ctx context.Context, index int32) error {
	children, err := s.allocateBlock(ctx)
	if err != nil {
		return err
	}
	value := s.data[index]
	for i := int32(0); i < blockSize; i++ {
		s.data[children+i] = value
	}
	s.data[index] = children
	return nil
}
