package subindex

/*
subindex defines the contract between the upper octree and the structures that
own the bottom six levels of the volume. Each instance covers one 64^3 cube.
The octree never looks inside a sub-index handle; it only passes handles back to
the instance that produced them.
*/

////////////////////////////////////////////////////////////////////////////////

// Levels is the number of tree levels owned by a sub-index.
const Levels = 6

// Size is the edge length of the cube covered by a sub-index.
const Size = 1 << Levels

// Handle is an opaque cursor produced by an Index.
type Handle any

// Index is a per-cube voxel structure. Coordinates are full volume
// coordinates; implementations use only the low Levels bits.
type Index interface {
	// Set writes typ at the voxel.
	Set(typ, x, y, z int) error

	// Get returns the type at the voxel.
	Get(x, y, z int) int

	// GetWithLevel returns the node the voxel falls in, and the level of that
	// node (0 for a single voxel, Levels for the whole cube).
	GetWithLevel(x, y, z int) (Handle, int)

	// Root returns a handle on the node covering the whole cube.
	Root() Handle

	// Child returns the i'th octant of h.
	Child(h Handle, i int) Handle

	// Type returns the type of a leaf handle.
	Type(h Handle) int

	// IsBranch reports whether h has distinct children.
	IsBranch(h Handle) bool

	// ReleaseAuxiliaryIndex discards build-time lookup structures. It is
	// called once, after all writes to the instance.
	ReleaseAuxiliaryIndex()

	// NodeCount returns the number of node slots held by the instance.
	NodeCount() int64
}

// Factory creates an Index whose cube is initially uniformly of type fill.
type Factory func(fill int) Index

// Octant returns the child slot (0-7) selected by bit of each coordinate. The x
// bit is the most significant.
func Octant(x, y, z, bit int) int32 {
	return int32((x>>bit&1)<<2 | (y>>bit&1)<<1 | (z >> bit & 1))
}
