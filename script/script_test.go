package script_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/dagtree/octree"
	"github.com/wkalt/dagtree/script"
)

func TestParse(t *testing.T) {
	cases := []struct {
		assertion string
		src       string
		expected  []*script.Statement
	}{
		{
			"empty",
			"",
			nil,
		},
		{
			"set",
			"set 3 at 1 2 3",
			[]*script.Statement{{Set: &script.SetStmt{Type: 3, At: script.Point{X: 1, Y: 2, Z: 3}}}},
		},
		{
			"fill",
			"fill 2 from 0 0 0 to 4 5 6;",
			[]*script.Statement{{Fill: &script.FillStmt{
				Type: 2,
				From: script.Point{X: 0, Y: 0, Z: 0},
				To:   script.Point{X: 4, Y: 5, Z: 6},
			}}},
		},
		{
			"queries separated by semicolons",
			"get 1 1 1; level 2 2 2; finalize; stats",
			[]*script.Statement{
				{Get: &script.Point{X: 1, Y: 1, Z: 1}},
				{Level: &script.Point{X: 2, Y: 2, Z: 2}},
				{Finalize: true},
				{Stats: true},
			},
		},
		{
			"newlines and comments",
			"# build\nset 1 at 0 0 0\nget 0 0 0\n",
			[]*script.Statement{
				{Set: &script.SetStmt{Type: 1, At: script.Point{}}},
				{Get: &script.Point{}},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			s, err := script.Parse(c.src)
			require.NoError(t, err)
			assert.Equal(t, c.expected, s.Statements)
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		assertion string
		src       string
	}{
		{"unknown command", "delete 1 2 3"},
		{"missing coordinate", "get 1 2"},
		{"missing keyword", "set 3 1 2 3"},
		{"non-numeric type", "set x at 1 2 3"},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			_, err := script.Parse(c.src)
			require.Error(t, err)
		})
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		assertion string
		src       string
		output    string
	}{
		{
			"get unset voxel",
			"get 1 2 3",
			"(1, 2, 3) = 0\n",
		},
		{
			"set then get",
			"set 4 at 1 2 3; get 1 2 3; get 1 2 4",
			"(1, 2, 3) = 4\n(1, 2, 4) = 0\n",
		},
		{
			"level of a voxel",
			"set 4 at 0 0 0; level 0 0 0; level 1 0 0",
			"(0, 0, 0) = 4 at level 0\n(1, 0, 0) = 0 at level 0\n",
		},
		{
			"filled cell collapses",
			"fill 4 from 1 1 1 to 0 0 0; level 0 0 0",
			"(0, 0, 0) = 4 at level 1\n",
		},
		{
			"untouched region",
			"set 4 at 0 0 0; level 100 100 100",
			"(100, 100, 100) = 0 at level 6\n",
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			tree := octree.NewTestTree(t, 7)
			buf := &bytes.Buffer{}
			require.NoError(t, script.Run(ctx, tree, c.src, buf))
			assert.Equal(t, c.output, buf.String())
		})
	}
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	t.Run("write after finalize", func(t *testing.T) {
		tree := octree.NewTestTree(t, 7)
		err := script.Run(ctx, tree, "finalize; set 1 at 0 0 0", &bytes.Buffer{})
		require.ErrorIs(t, err, octree.ErrFinalized)
	})
	t.Run("out of bounds", func(t *testing.T) {
		tree := octree.NewTestTree(t, 7)
		err := script.Run(ctx, tree, "get 128 0 0", &bytes.Buffer{})
		require.ErrorIs(t, err, octree.OutOfBoundsError{})
	})
	t.Run("fill stops at the first failure", func(t *testing.T) {
		tree := octree.NewTestTree(t, 7)
		err := script.Run(ctx, tree, "fill 1 from 126 0 0 to 128 0 0", &bytes.Buffer{})
		require.ErrorIs(t, err, octree.OutOfBoundsError{})
		octree.RequireType(t, tree, 1, [3]int{126, 0, 0}, [3]int{127, 0, 0})
	})
	t.Run("statement without a command", func(t *testing.T) {
		tree := octree.NewTestTree(t, 7)
		s := &script.Script{Statements: []*script.Statement{{}}}
		err := script.Exec(ctx, tree, s, &bytes.Buffer{})
		require.ErrorIs(t, err, script.ErrEmptyStatement)
	})
	t.Run("parse failure", func(t *testing.T) {
		tree := octree.NewTestTree(t, 7)
		require.Error(t, script.Run(ctx, tree, "frobnicate", &bytes.Buffer{}))
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	tree := octree.NewTestTree(t, 7)
	buf := &bytes.Buffer{}
	require.NoError(t, script.Run(ctx, tree, "set 1 at 0 0 0; finalize; stats", buf))
	assert.Contains(t, buf.String(), "depth: 7\n")
	assert.Contains(t, buf.String(), "upper slots: 16 used / 64 allocated (256 B, 25% full)\n")
	assert.Contains(t, buf.String(), "sub-indexes: 1 ")
	assert.Contains(t, buf.String(), "finalized: yes\n")
}
