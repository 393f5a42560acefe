package script

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wkalt/dagtree/octree"
	"github.com/wkalt/dagtree/util"
	"github.com/wkalt/dagtree/util/log"
)

// ErrEmptyStatement is returned when a statement has no command.
var ErrEmptyStatement = errors.New("empty statement")

// Run parses src and executes it against tree.
func Run(ctx context.Context, tree *octree.Tree, src string, w io.Writer) error {
	s, err := Parse(src)
	if err != nil {
		return err
	}
	return Exec(ctx, tree, s, w)
}

// Exec executes the statements of s in order, writing the results of get,
// level and stats to w. It stops at the first failing statement.
func Exec(ctx context.Context, tree *octree.Tree, s *Script, w io.Writer) error {
	for i, stmt := range s.Statements {
		if err := execStatement(ctx, tree, stmt, w); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	log.Debugw(ctx, "executed script", "statements", len(s.Statements))
	return nil
}

func execStatement(ctx context.Context, tree *octree.Tree, stmt *Statement, w io.Writer) error {
	switch {
	case stmt.Set != nil:
		p := stmt.Set.At
		return tree.Set(ctx, stmt.Set.Type, p.X, p.Y, p.Z)
	case stmt.Fill != nil:
		return Fill(ctx, tree, stmt.Fill.Type, stmt.Fill.From, stmt.Fill.To)
	case stmt.Get != nil:
		p := *stmt.Get
		typ, err := tree.Get(p.X, p.Y, p.Z)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s = %d\n", p, typ)
		return err
	case stmt.Level != nil:
		p := *stmt.Level
		h, level, err := tree.GetWithLevel(p.X, p.Y, p.Z)
		if err != nil {
			return err
		}
		typ, err := tree.Type(h)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s = %d at level %d\n", p, typ, level)
		return err
	case stmt.Finalize:
		tree.EndFinalization(ctx)
		return nil
	case stmt.Stats:
		return WriteStats(w, tree.Stats())
	default:
		return ErrEmptyStatement
	}
}

// Fill writes typ at every voxel of the inclusive box spanned by a and b.
func Fill(ctx context.Context, tree *octree.Tree, typ int, a, b Point) error {
	x0, x1 := util.Order(a.X, b.X)
	y0, y1 := util.Order(a.Y, b.Y)
	z0, z1 := util.Order(a.Z, b.Z)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				if err := tree.Set(ctx, typ, x, y, z); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WriteStats writes a summary of tree statistics to w.
func WriteStats(w io.Writer, stats octree.Stats) error {
	slotBytes := uint64(4)
	_, err := fmt.Fprintf(w,
		"depth: %d\n"+
			"upper slots: %d used / %d allocated (%s, %.0f%% full)\n"+
			"reallocations: %d\n"+
			"sub-indexes: %d (%d slots, %s)\n"+
			"finalized: %s\n",
		stats.Depth,
		stats.SlotsUsed, stats.SlotsAllocated,
		util.HumanBytes(uint64(stats.SlotsAllocated)*slotBytes),
		100*util.Ratio(stats.SlotsUsed, stats.SlotsAllocated),
		stats.Generation,
		stats.SubIndexes, stats.SubIndexSlots,
		util.HumanBytes(uint64(stats.SubIndexSlots)*slotBytes),
		util.When(stats.Finalized, "yes", "no"),
	)
	return err
}
