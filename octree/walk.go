package octree

import (
	"context"
	"fmt"
	"strings"
)

/*
Traversal of a tree through node handles. Walk and Print see the tree the way
any external consumer would: as one octree of handles, without regard to where
the node store ends and the sub-indexes begin.
*/

////////////////////////////////////////////////////////////////////////////////

// WalkFunc is called for each leaf of the tree with the leaf's handle, its
// level and its type. Returning an error stops the walk.
type WalkFunc func(h NodeHandle, level int, typ int) error

// Walk visits every leaf of the tree depth first, in octant order.
func Walk(ctx context.Context, t *Tree, fn WalkFunc) error {
	type frame struct {
		h     NodeHandle
		level int
	}
	stack := []frame{{t.Root(), t.Depth()}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		branch, err := t.IsBranch(f.h)
		if err != nil {
			return fmt.Errorf("failed to inspect node %s: %w", f.h, err)
		}
		if !branch {
			typ, err := t.Type(f.h)
			if err != nil {
				return fmt.Errorf("failed to get type of node %s: %w", f.h, err)
			}
			if err := fn(f.h, f.level, typ); err != nil {
				return err
			}
			continue
		}
		for i := blockSize - 1; i >= 0; i-- {
			child, err := t.Child(f.h, i)
			if err != nil {
				return fmt.Errorf("failed to get child %d of %s: %w", i, f.h, err)
			}
			stack = append(stack, frame{child, f.level - 1})
		}
	}
	return nil
}

// Print returns a string representation of the tree, for debugging. A branch
// prints as [level child0 ... child7] and a leaf as level:type.
func Print(ctx context.Context, t *Tree) (string, error) {
	sb := &strings.Builder{}
	if err := printNode(ctx, t, sb, t.Root(), t.Depth()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func printNode(ctx context.Context, t *Tree, sb *strings.Builder, h NodeHandle, level int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	branch, err := t.IsBranch(h)
	if err != nil {
		return err
	}
	if !branch {
		typ, err := t.Type(h)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("%d:%d", level, typ))
		return nil
	}
	sb.WriteString(fmt.Sprintf("[%d", level))
	for i := 0; i < blockSize; i++ {
		child, err := t.Child(h, i)
		if err != nil {
			return err
		}
		sb.WriteString(" ")
		if err := printNode(ctx, t, sb, child, level-1); err != nil {
			return err
		}
	}
	sb.WriteString("]")
	return nil
}
