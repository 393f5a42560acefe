package octree

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/wkalt/dagtree/subdag"
	"github.com/wkalt/dagtree/subindex"
	"github.com/wkalt/dagtree/util/log"
)

/*
The octree package implements a sparse voxel index over a cube of edge
2^depth, storing one integer type per voxel. It has two tiers.

The upper tier covers levels depth down to 6 and lives in the node store, a
flat int32 array addressed by offset (see store.go). Writes split leaves lazily:
a leaf is only subdivided when a write needs a different type below it, and the
new children inherit the leaf's value so the tree still describes the same
volume.

Level 6 is the tier boundary. A boundary slot is either 0, meaning the 64^3
cube below it has never been written, or a 1-based reference into the registry
of sub-indexes. Each sub-index owns the six lowest levels of its cube; the
default sub-index is a hash-consed DAG (package subdag) that stores identical
sub-patterns once.

Levels are counted from the bottom: a node at level L covers a cube of edge
2^L. The root is at level depth and single voxels are at level 0.

A tree is built by Set calls and then finalized, which lets every sub-index
drop its build-time index. The tree is not safe for concurrent use; readers
may share a finalized tree.
*/

////////////////////////////////////////////////////////////////////////////////

const (
	// BoundaryLevel is the level at which the node store hands off to
	// sub-indexes.
	BoundaryLevel = subindex.Levels

	// MinDepth is the smallest supported depth: one level above the boundary.
	MinDepth = BoundaryLevel + 1

	// MaxDepth is the largest supported depth.
	MaxDepth = 30
)

// Tree is a two-tier sparse voxel octree.
type Tree struct {
	depth       int
	store       *nodeStore
	subs        registry
	newSubIndex subindex.Factory
	strict      bool
	finalized   bool

	// err is set when the tree becomes unusable for writes.
	err error
}

// Stats describes the storage used by a tree.
type Stats struct {
	Depth          int
	SlotsUsed      int
	SlotsAllocated int
	Generation     uint64
	SubIndexes     int
	SubIndexSlots  int64
	Finalized      bool
}

// New constructs an empty tree covering a cube of edge 2^depth.
func New(depth int, opts ...Option) (*Tree, error) {
	if depth < MinDepth || depth > MaxDepth {
		return nil, InvalidDepthError{depth}
	}
	cfg := config{
		initialCapacity: defaultInitialCapacity,
		maxNodes:        maxArrayLength,
		subIndexFactory: subdag.Factory,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Tree{
		depth:       depth,
		store:       newNodeStore(cfg.initialCapacity, cfg.maxNodes),
		newSubIndex: cfg.subIndexFactory,
		strict:      cfg.strictHandles,
	}, nil
}

// Depth returns the depth of the tree.
func (t *Tree) Depth() int {
	return t.depth
}

// Size returns the edge length of the volume.
func (t *Tree) Size() int {
	return 1 << t.depth
}

// upperDepth is the number of node store levels above the boundary.
func (t *Tree) upperDepth() int {
	return t.depth - BoundaryLevel
}

// Set writes typ at the voxel. Writing type 0 is a no-op: 0 means unset and
// voxels cannot be cleared.
func (t *Tree) Set(ctx context.Context, typ, x, y, z int) error {
	if t.err != nil {
		return t.err
	}
	if t.finalized {
		return ErrFinalized
	}
	if typ == 0 {
		return nil
	}
	if typ < 0 || typ > math.MaxInt32 {
		return InvalidTypeError{typ}
	}
	if err := t.checkBounds(x, y, z); err != nil {
		return err
	}
	leaf := -int32(typ)
	index := int32(0)
	for level := t.depth; level > BoundaryLevel; level-- {
		value := t.store.data[index]
		if value == leaf {
			return nil
		}
		if value <= 0 {
			if err := t.store.subdivide(ctx, index); err != nil {
				t.err = fmt.Errorf("failed to subdivide node %d: %w", index, err)
				log.Errorw(ctx, "octree capacity exhausted", "slots", len(t.store.data), "error", err)
				return t.err
			}
		}
		index = t.store.data[index] + subindex.Octant(x, y, z, level-1)
	}
	ref := t.store.data[index]
	if ref == leaf {
		return nil
	}
	if ref <= 0 {
		ref = t.subs.add(t.newSubIndex(int(-ref)))
		t.store.data[index] = ref
	}
	sub, err := t.subs.lookup(ref)
	if err != nil {
		return err
	}
	if err := sub.Set(typ, x, y, z); err != nil {
		return fmt.Errorf("failed to write sub-index %d: %w", ref, err)
	}
	return nil
}

// Get returns the type at the voxel. Unset voxels have type 0.
func (t *Tree) Get(x, y, z int) (int, error) {
	if err := t.checkBounds(x, y, z); err != nil {
		return 0, err
	}
	index, _ := t.descend(x, y, z)
	value := t.store.data[index]
	if value <= 0 {
		return int(-value), nil
	}
	sub, err := t.subs.lookup(value)
	if err != nil {
		return 0, err
	}
	return sub.Get(x, y, z), nil
}

// GetWithLevel returns a handle on the leaf containing the voxel, and the level
// of that leaf. The leaf's cube has edge 2^level and is uniformly one type.
func (t *Tree) GetWithLevel(x, y, z int) (NodeHandle, int, error) {
	if err := t.checkBounds(x, y, z); err != nil {
		return NodeHandle{}, 0, err
	}
	index, level := t.descend(x, y, z)
	value := t.store.data[index]
	if value <= 0 {
		return t.ownHandle(index, t.depth-level), level, nil
	}
	sub, err := t.subs.lookup(value)
	if err != nil {
		return NodeHandle{}, 0, err
	}
	h, level := sub.GetWithLevel(x, y, z)
	return delegatedHandle(sub, h), level, nil
}

// descend walks the node store toward the voxel and returns the slot where the
// walk stopped, either a leaf or a boundary slot, along with its level.
func (t *Tree) descend(x, y, z int) (int32, int) {
	data := t.store.data
	index := int32(0)
	level := t.depth
	for level > BoundaryLevel {
		value := data[index]
		if value <= 0 {
			break
		}
		level--
		index = value + subindex.Octant(x, y, z, level)
	}
	return index, level
}

func (t *Tree) checkBounds(x, y, z int) error {
	size := t.Size()
	if x < 0 || y < 0 || z < 0 || x >= size || y >= size || z >= size {
		return OutOfBoundsError{x, y, z, size}
	}
	return nil
}

// EndFinalization ends the build phase. Every sub-index discards its
// build-time index and further writes fail with ErrFinalized.
func (t *Tree) EndFinalization(ctx context.Context) {
	if t.finalized {
		return
	}
	for _, sub := range t.subs.entries {
		sub.ReleaseAuxiliaryIndex()
	}
	t.finalized = true
	log.Infow(ctx, "finalized octree",
		"depth", t.depth,
		"slots", t.store.size,
		"subindexes", t.subs.len(),
	)
}

// Finalized reports whether EndFinalization has been called.
func (t *Tree) Finalized() bool {
	return t.finalized
}

// Generation returns the number of node array reallocations so far.
func (t *Tree) Generation() uint64 {
	return t.store.generation
}

// NodeCount returns the number of node slots in use across both tiers.
func (t *Tree) NodeCount() int64 {
	count := int64(t.store.size)
	for _, sub := range t.subs.entries {
		count += sub.NodeCount()
	}
	return count
}

// Stats returns storage statistics for the tree.
func (t *Tree) Stats() Stats {
	stats := Stats{
		Depth:          t.depth,
		SlotsUsed:      t.store.size,
		SlotsAllocated: len(t.store.data),
		Generation:     t.store.generation,
		SubIndexes:     t.subs.len(),
		Finalized:      t.finalized,
	}
	for _, sub := range t.subs.entries {
		stats.SubIndexSlots += sub.NodeCount()
	}
	return stats
}

// Store serializes the tree. Serialization is not implemented for this
// representation.
func (t *Tree) Store(_ io.Writer) error {
	return ErrUnsupported
}
