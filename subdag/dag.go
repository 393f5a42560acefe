package subdag

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/spaolacci/murmur3"
	"github.com/wkalt/dagtree/subindex"
)

/*
A DAG stores one 64^3 cube as an octree in which identical subtrees are stored
once. Node references use the same encoding as the upper octree: a value v <= 0
is a uniform leaf of type -v, and v > 0 is the offset of an 8-slot block in
blocks holding the node's children.

Blocks are immutable once written. A write copies the path from the modified
voxel up to the root, producing new blocks, and swaps the root reference. A
block whose eight slots hold the same leaf is never stored; its parent holds
the leaf instead, so uniform regions collapse as soon as they become uniform.

While the DAG is being built, blocks are interned through a hash index keyed by
the murmur3 hash of their contents, so that a block equal to one already stored
reuses the existing offset. Each stored block carries a count of the slots (and
the root) referencing it. When a write replaces a path, blocks whose count drops
to zero are unindexed and put on a free list that later writes allocate from, so
the block array stays bounded by the live blocks plus one path.

ReleaseAuxiliaryIndex drops the index and the counts, and compacts the live
blocks into a fresh array. After that the DAG is read-only.
*/

////////////////////////////////////////////////////////////////////////////////

const blockSize = 8

const maxBlocks = math.MaxInt32 - 16

// DAG is a hash-consed octree over a 64^3 cube.
type DAG struct {
	root   int32
	blocks []int32
	refs   []int32 // per block, indexed by offset/blockSize
	free   []int32
	index  map[uint64][]int32
	hits   int64
}

// Stats describes the storage of a DAG.
type Stats struct {
	Blocks   int   // live 8-slot blocks
	Free     int   // released blocks awaiting reuse
	Interned int64 // writes that reused an existing block
	Indexed  bool  // whether the build-time index is still present
}

// New returns an empty DAG.
func New() *DAG {
	return NewUniform(0)
}

// NewUniform returns a DAG whose cube is entirely of type fill.
func NewUniform(fill int) *DAG {
	return &DAG{
		root:   -int32(fill),
		blocks: make([]int32, blockSize, 8*blockSize), // offset 0 is reserved
		refs:   make([]int32, 1, 8),
		index:  make(map[uint64][]int32),
	}
}

// Factory constructs DAGs for the upper octree.
func Factory(fill int) subindex.Index {
	return NewUniform(fill)
}

// Set writes typ at the voxel addressed by the low six bits of x, y and z.
func (d *DAG) Set(typ, x, y, z int) error {
	if d.index == nil {
		return ErrIndexReleased
	}
	if typ < 0 || typ > math.MaxInt32 {
		return InvalidTypeError{typ}
	}
	// path[l-1] is the reference of the node at level l on the way down.
	var path [subindex.Levels]int32
	ref := d.root
	for level := subindex.Levels; level > 0; level-- {
		path[level-1] = ref
		if ref > 0 {
			ref = d.blocks[ref+subindex.Octant(x, y, z, level-1)]
		}
	}
	leaf := -int32(typ)
	if ref == leaf {
		return nil
	}
	// The loop holds one count on ref, dropped once its parent is interned.
	ref = leaf
	for level := 1; level <= subindex.Levels; level++ {
		parent := path[level-1]
		var block [blockSize]int32
		if parent > 0 {
			copy(block[:], d.blocks[parent:parent+blockSize])
		} else {
			for i := range block {
				block[i] = parent
			}
		}
		block[subindex.Octant(x, y, z, level-1)] = ref
		next, err := d.intern(block)
		d.release(ref)
		if err != nil {
			return err
		}
		ref = next
	}
	old := d.root
	d.root = ref
	d.release(old)
	return nil
}

// Get returns the type at the voxel.
func (d *DAG) Get(x, y, z int) int {
	ref := d.root
	for level := subindex.Levels; level > 0 && ref > 0; level-- {
		ref = d.blocks[ref+subindex.Octant(x, y, z, level-1)]
	}
	return int(-ref)
}

// GetWithLevel returns the leaf containing the voxel and its level.
func (d *DAG) GetWithLevel(x, y, z int) (subindex.Handle, int) {
	ref := d.root
	level := subindex.Levels
	for ; level > 0 && ref > 0; level-- {
		ref = d.blocks[ref+subindex.Octant(x, y, z, level-1)]
	}
	return Handle{ref: ref, level: level}, level
}

// Root returns a handle on the whole cube.
func (d *DAG) Root() subindex.Handle {
	return Handle{ref: d.root, level: subindex.Levels}
}

// Child returns the i'th octant of h. The children of a uniform leaf are
// leaves of the same type; below a single voxel the level stays at zero.
func (d *DAG) Child(h subindex.Handle, i int) subindex.Handle {
	n := asHandle(h)
	if n.ref <= 0 {
		return Handle{ref: n.ref, level: max(n.level-1, 0)}
	}
	return Handle{ref: d.blocks[n.ref+int32(i)], level: n.level - 1}
}

// Type returns the type of a leaf handle. For branches the result is
// meaningless.
func (d *DAG) Type(h subindex.Handle) int {
	return int(-asHandle(h).ref)
}

// IsBranch reports whether h references a stored block.
func (d *DAG) IsBranch(h subindex.Handle) bool {
	return asHandle(h).ref > 0
}

// ReleaseAuxiliaryIndex drops the build-time hash index and reference counts
// and compacts the live blocks.
func (d *DAG) ReleaseAuxiliaryIndex() {
	if d.index == nil {
		return
	}
	d.compact()
	d.index = nil
	d.refs = nil
	d.free = nil
}

// NodeCount returns the number of slots in the block array, including the
// reserved block and any free blocks.
func (d *DAG) NodeCount() int64 {
	return int64(len(d.blocks))
}

// Stats returns storage statistics.
func (d *DAG) Stats() Stats {
	return Stats{
		Blocks:   len(d.blocks)/blockSize - 1 - len(d.free),
		Free:     len(d.free),
		Interned: d.hits,
		Indexed:  d.index != nil,
	}
}

// intern returns a reference to a block equal to block, storing it if
// necessary. The caller owns one count on the result.
func (d *DAG) intern(block [blockSize]int32) (int32, error) {
	if collapsible(block) {
		return block[0], nil
	}
	key := hashBlock(block)
	for _, offset := range d.index[key] {
		if [blockSize]int32(d.blocks[offset:offset+blockSize]) == block {
			d.hits++
			d.retain(offset)
			return offset, nil
		}
	}
	offset, err := d.allocate()
	if err != nil {
		return 0, err
	}
	copy(d.blocks[offset:offset+blockSize], block[:])
	for _, child := range block {
		d.retain(child)
	}
	d.refs[offset/blockSize] = 1
	d.index[key] = append(d.index[key], offset)
	return offset, nil
}

func (d *DAG) allocate() (int32, error) {
	if n := len(d.free); n > 0 {
		offset := d.free[n-1]
		d.free = d.free[:n-1]
		return offset, nil
	}
	if len(d.blocks)+blockSize > maxBlocks {
		return 0, ErrTooBig
	}
	offset := int32(len(d.blocks))
	d.blocks = append(d.blocks, make([]int32, blockSize)...)
	d.refs = append(d.refs, 0)
	return offset, nil
}

func (d *DAG) retain(ref int32) {
	if ref > 0 {
		d.refs[ref/blockSize]++
	}
}

// release drops one count on ref, freeing the block and releasing its
// children when the count reaches zero.
func (d *DAG) release(ref int32) {
	if ref <= 0 {
		return
	}
	d.refs[ref/blockSize]--
	if d.refs[ref/blockSize] > 0 {
		return
	}
	block := [blockSize]int32(d.blocks[ref : ref+blockSize])
	d.unindex(hashBlock(block), ref)
	d.free = append(d.free, ref)
	for _, child := range block {
		d.release(child)
	}
}

func (d *DAG) unindex(key uint64, offset int32) {
	bucket := d.index[key]
	for i, v := range bucket {
		if v == offset {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(d.index, key)
		return
	}
	d.index[key] = bucket
}

// compact copies the blocks reachable from the root into a fresh array,
// children before parents, preserving sharing.
func (d *DAG) compact() {
	live := len(d.blocks) - blockSize*len(d.free)
	blocks := make([]int32, blockSize, live)
	moved := make(map[int32]int32)
	var visit func(ref int32) int32
	visit = func(ref int32) int32 {
		if ref <= 0 {
			return ref
		}
		if to, ok := moved[ref]; ok {
			return to
		}
		block := [blockSize]int32(d.blocks[ref : ref+blockSize])
		for i, child := range block {
			block[i] = visit(child)
		}
		to := int32(len(blocks))
		blocks = append(blocks, block[:]...)
		moved[ref] = to
		return to
	}
	d.root = visit(d.root)
	d.blocks = blocks
}

// collapsible reports whether all eight slots are the same leaf.
func collapsible(block [blockSize]int32) bool {
	if block[0] > 0 {
		return false
	}
	for _, v := range block[1:] {
		if v != block[0] {
			return false
		}
	}
	return true
}

func hashBlock(block [blockSize]int32) uint64 {
	var buf [4 * blockSize]byte
	for i, v := range block {
		binary.LittleEndian.PutUint32(buf[4*i:], uint32(v))
	}
	return murmur3.Sum64(buf[:])
}

// Handle is a cursor on a DAG node.
type Handle struct {
	ref   int32
	level int
}

// Level returns the level of the node, 0 being a single voxel.
func (h Handle) Level() int {
	return h.level
}

func asHandle(h subindex.Handle) Handle {
	n, ok := h.(Handle)
	if !ok {
		panic(fmt.Sprintf("subdag: foreign handle %T", h))
	}
	return n
}
