package octree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestTree constructs a tree, failing the test on error.
func NewTestTree(t *testing.T, depth int, opts ...Option) *Tree {
	t.Helper()
	tree, err := New(depth, opts...)
	require.NoError(t, err)
	return tree
}

// SetVoxels writes typ at each of the supplied voxels.
func SetVoxels(ctx context.Context, t *testing.T, tree *Tree, typ int, voxels ...[3]int) {
	t.Helper()
	for _, v := range voxels {
		require.NoError(t, tree.Set(ctx, typ, v[0], v[1], v[2]))
	}
}

// FillCube writes typ at every voxel of the cube of edge size with its
// minimum corner at (x, y, z).
func FillCube(ctx context.Context, t *testing.T, tree *Tree, typ, x, y, z, size int) {
	t.Helper()
	for i := x; i < x+size; i++ {
		for j := y; j < y+size; j++ {
			for k := z; k < z+size; k++ {
				require.NoError(t, tree.Set(ctx, typ, i, j, k))
			}
		}
	}
}

// RequireType asserts the type at each of the supplied voxels.
func RequireType(t *testing.T, tree *Tree, typ int, voxels ...[3]int) {
	t.Helper()
	for _, v := range voxels {
		got, err := tree.Get(v[0], v[1], v[2])
		require.NoError(t, err)
		require.Equal(t, typ, got, "voxel %v", v)
	}
}
