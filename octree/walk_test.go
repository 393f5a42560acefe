package octree_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/dagtree/octree"
)

func TestWalkCoversVolume(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		assertion string
		depth     int
		voxels    [][3]int
	}{
		{"empty", 7, nil},
		{"single voxel", 7, [][3]int{{5, 6, 7}}},
		{"several cubes", 9, [][3]int{{0, 0, 0}, {1, 0, 0}, {300, 20, 500}, {511, 511, 511}}},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			tree := octree.NewTestTree(t, c.depth)
			octree.SetVoxels(ctx, t, tree, 8, c.voxels...)
			var volume, written int64
			require.NoError(t, octree.Walk(ctx, tree, func(_ octree.NodeHandle, level, typ int) error {
				cells := int64(1) << (3 * level)
				volume += cells
				if typ == 8 {
					written += cells
				}
				return nil
			}))
			assert.Equal(t, int64(1)<<(3*c.depth), volume)
			assert.Equal(t, int64(len(c.voxels)), written)
		})
	}
}

func TestWalkStopsOnError(t *testing.T) {
	ctx := context.Background()
	tree := octree.NewTestTree(t, 7)
	octree.SetVoxels(ctx, t, tree, 1, [3]int{0, 0, 0})
	stop := errors.New("stop")
	calls := 0
	err := octree.Walk(ctx, tree, func(_ octree.NodeHandle, _, _ int) error {
		calls++
		return stop
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestWalkOrder(t *testing.T) {
	ctx := context.Background()
	tree := octree.NewTestTree(t, 7)
	octree.SetVoxels(ctx, t, tree, 1, [3]int{64, 0, 0})
	octree.SetVoxels(ctx, t, tree, 2, [3]int{0, 0, 64})
	var seen []int
	require.NoError(t, octree.Walk(ctx, tree, func(_ octree.NodeHandle, _, typ int) error {
		if typ != 0 {
			seen = append(seen, typ)
		}
		return nil
	}))
	assert.Equal(t, []int{2, 1}, seen)
}

func TestWalkCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tree := octree.NewTestTree(t, 7)
	err := octree.Walk(ctx, tree, func(octree.NodeHandle, int, int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

// nested returns the representation of a tree with a single voxel of type typ
// at the origin.
func nested(depth, typ int) string {
	repr := fmt.Sprintf("0:%d", typ)
	for level := 1; level <= depth; level++ {
		repr = fmt.Sprintf("[%d %s%s]", level, repr, strings.Repeat(fmt.Sprintf(" %d:0", level-1), 7))
	}
	return repr
}

func TestPrint(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		assertion string
		setup     func(*testing.T, *octree.Tree)
		repr      string
	}{
		{
			"empty tree",
			func(*testing.T, *octree.Tree) {},
			"7:0",
		},
		{
			"single voxel",
			func(t *testing.T, tree *octree.Tree) {
				octree.SetVoxels(ctx, t, tree, 1, [3]int{0, 0, 0})
			},
			nested(7, 1),
		},
		{
			"uniform cube",
			func(t *testing.T, tree *octree.Tree) {
				octree.FillCube(ctx, t, tree, 3, 0, 0, 0, 64)
			},
			"[7 6:3" + strings.Repeat(" 6:0", 7) + "]",
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			tree := octree.NewTestTree(t, 7)
			c.setup(t, tree)
			repr, err := octree.Print(ctx, tree)
			require.NoError(t, err)
			assert.Equal(t, c.repr, repr)
		})
	}
}
