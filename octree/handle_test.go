package octree_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/dagtree/octree"
)

func TestEmptyRoot(t *testing.T) {
	tree := octree.NewTestTree(t, 7)
	root := tree.Root()
	branch, err := tree.IsBranch(root)
	require.NoError(t, err)
	assert.False(t, branch)
	typ, err := tree.Type(root)
	require.NoError(t, err)
	assert.Equal(t, 0, typ)
	assert.Equal(t, 0, tree.Data(root))
	assert.False(t, root.Delegated())
}

func TestChildNavigation(t *testing.T) {
	ctx := context.Background()
	tree := octree.NewTestTree(t, 7)
	octree.SetVoxels(ctx, t, tree, 3, [3]int{127, 0, 0})

	root := tree.Root()
	branch, err := tree.IsBranch(root)
	require.NoError(t, err)
	assert.True(t, branch)

	// x is the most significant octant bit.
	boundary, err := tree.Child(root, 4)
	require.NoError(t, err)
	assert.False(t, boundary.Delegated())
	branch, err = tree.IsBranch(boundary)
	require.NoError(t, err)
	assert.True(t, branch)

	h := boundary
	for level := 5; level >= 0; level-- {
		h, err = tree.Child(h, 4)
		require.NoError(t, err)
		assert.True(t, h.Delegated())
	}
	branch, err = tree.IsBranch(h)
	require.NoError(t, err)
	assert.False(t, branch)
	typ, err := tree.Type(h)
	require.NoError(t, err)
	assert.Equal(t, 3, typ)

	t.Run("sibling of the written cube is an empty leaf", func(t *testing.T) {
		sibling, err := tree.Child(root, 0)
		require.NoError(t, err)
		branch, err := tree.IsBranch(sibling)
		require.NoError(t, err)
		assert.False(t, branch)

		// a leaf's children are the leaf itself.
		child, err := tree.Child(sibling, 3)
		require.NoError(t, err)
		assert.False(t, child.Delegated())
		typ, err := tree.Type(child)
		require.NoError(t, err)
		assert.Equal(t, 0, typ)
	})
}

func TestBoundaryNodeOfUniformCube(t *testing.T) {
	ctx := context.Background()
	tree := octree.NewTestTree(t, 7)
	octree.FillCube(ctx, t, tree, 2, 0, 0, 0, 64)

	boundary, err := tree.Child(tree.Root(), 0)
	require.NoError(t, err)
	branch, err := tree.IsBranch(boundary)
	require.NoError(t, err)
	assert.False(t, branch)
	typ, err := tree.Type(boundary)
	require.NoError(t, err)
	assert.Equal(t, 2, typ)

	_, level, err := tree.GetWithLevel(10, 20, 30)
	require.NoError(t, err)
	assert.Equal(t, 6, level)
}

func TestInvalidHandles(t *testing.T) {
	tree := octree.NewTestTree(t, 7)
	t.Run("zero handle", func(t *testing.T) {
		_, err := tree.IsBranch(octree.NodeHandle{})
		require.ErrorIs(t, err, octree.ErrInvalidHandle)
		_, err = tree.Type(octree.NodeHandle{})
		require.ErrorIs(t, err, octree.ErrInvalidHandle)
		_, err = tree.Child(octree.NodeHandle{}, 0)
		require.ErrorIs(t, err, octree.ErrInvalidHandle)
	})
	t.Run("octant out of range", func(t *testing.T) {
		for _, i := range []int{-1, 8} {
			_, err := tree.Child(tree.Root(), i)
			require.ErrorIs(t, err, octree.ErrInvalidOctant)
		}
	})
}

func TestStaleHandles(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		assertion string
		opts      []octree.Option
		strict    bool
	}{
		{"lenient by default", nil, false},
		{"strict mode rejects stale handles", []octree.Option{octree.WithStrictHandles()}, true},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			opts := append([]octree.Option{octree.WithInitialCapacity(8)}, c.opts...)
			tree := octree.NewTestTree(t, 9, opts...)
			root := tree.Root()
			assert.True(t, tree.Fresh(root))

			octree.SetVoxels(ctx, t, tree, 1, [3]int{0, 0, 0})
			require.Positive(t, tree.Generation())
			assert.False(t, tree.Fresh(root))

			_, err := tree.IsBranch(root)
			if c.strict {
				require.ErrorIs(t, err, octree.StaleHandleError{})
			} else {
				require.NoError(t, err)
			}
			assert.True(t, tree.Fresh(tree.Root()))
		})
	}
}

func TestDelegatedHandlesAreFresh(t *testing.T) {
	ctx := context.Background()
	tree := octree.NewTestTree(t, 7, octree.WithStrictHandles())
	octree.SetVoxels(ctx, t, tree, 1, [3]int{0, 0, 0})
	h, _, err := tree.GetWithLevel(0, 0, 0)
	require.NoError(t, err)
	require.True(t, h.Delegated())
	octree.SetVoxels(ctx, t, tree, 1, [3]int{64, 64, 64})
	assert.True(t, tree.Fresh(h))
	typ, err := tree.Type(h)
	require.NoError(t, err)
	assert.Equal(t, 1, typ)
}
