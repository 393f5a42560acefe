package octree

import (
	"errors"
	"fmt"

	"github.com/wkalt/dagtree/subindex"
)

/*
A NodeHandle is a cursor on a node of the tree. Nodes in the upper tier live in
the node store and are addressed by slot. Nodes below the boundary belong to a
sub-index and are addressed by whatever handle that sub-index produces; the
tree never looks inside those.

A handle is tagged with its kind, and every operation whose behavior depends on
the kind goes through visit. Adding a tier means adding a case to visit.

Handles are values and own nothing. An upper tier handle records the store
generation it was minted at; after the node array is reallocated the handle is
stale, and in strict mode using it is an error.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrInvalidHandle is returned for the zero NodeHandle.
var ErrInvalidHandle = errors.New("invalid node handle")

// ErrInvalidOctant is returned when a child index is outside [0, 7].
var ErrInvalidOctant = errors.New("octant out of range [0, 7]")

type handleKind uint8

const (
	ownTier handleKind = iota + 1
	delegated
)

func (k handleKind) String() string {
	switch k {
	case ownTier:
		return "own"
	case delegated:
		return "delegated"
	default:
		return "invalid"
	}
}

// NodeHandle is a cursor on a tree node.
type NodeHandle struct {
	kind handleKind

	// upper tier
	index      int32
	depth      int // levels below the root
	generation uint64

	// delegated
	sub       subindex.Index
	subHandle subindex.Handle
}

// Delegated reports whether the handle points below the tier boundary.
func (h NodeHandle) Delegated() bool {
	return h.kind == delegated
}

// String returns a string representation of the handle.
func (h NodeHandle) String() string {
	switch h.kind {
	case ownTier:
		return fmt.Sprintf("own:%d@%d", h.index, h.depth)
	case delegated:
		return fmt.Sprintf("delegated:%v", h.subHandle)
	default:
		return "invalid"
	}
}

func (t *Tree) ownHandle(index int32, depth int) NodeHandle {
	return NodeHandle{
		kind:       ownTier,
		index:      index,
		depth:      depth,
		generation: t.store.generation,
	}
}

func delegatedHandle(sub subindex.Index, h subindex.Handle) NodeHandle {
	return NodeHandle{
		kind:      delegated,
		sub:       sub,
		subHandle: h,
	}
}

// visit applies own to upper tier handles and delegated to sub-index handles.
func visit[T any](
	h NodeHandle,
	own func(NodeHandle) (T, error),
	del func(subindex.Index, subindex.Handle) (T, error),
) (T, error) {
	switch h.kind {
	case ownTier:
		return own(h)
	case delegated:
		return del(h.sub, h.subHandle)
	default:
		var zero T
		return zero, ErrInvalidHandle
	}
}

// Root returns a handle on the root node.
func (t *Tree) Root() NodeHandle {
	return t.ownHandle(0, 0)
}

// Fresh reports whether h was minted at the current store generation.
// Delegated handles are always fresh.
func (t *Tree) Fresh(h NodeHandle) bool {
	return h.kind != ownTier || h.generation == t.store.generation
}

func (t *Tree) checkFresh(h NodeHandle) error {
	if t.strict && !t.Fresh(h) {
		return StaleHandleError{handle: h.generation, current: t.store.generation}
	}
	return nil
}

// IsBranch reports whether the node has distinct children. A boundary node
// answers for the root of its sub-index.
func (t *Tree) IsBranch(h NodeHandle) (bool, error) {
	return visit(h,
		func(n NodeHandle) (bool, error) {
			if err := t.checkFresh(n); err != nil {
				return false, err
			}
			value := t.store.data[n.index]
			if value > 0 && n.depth == t.upperDepth() {
				sub, err := t.subs.lookup(value)
				if err != nil {
					return false, err
				}
				return sub.IsBranch(sub.Root()), nil
			}
			return value > 0, nil
		},
		func(sub subindex.Index, sh subindex.Handle) (bool, error) {
			return sub.IsBranch(sh), nil
		},
	)
}

// Child returns a handle on the i'th octant of the node. The child of a
// boundary node is the corresponding octant of its sub-index root. The
// children of a leaf are the leaf itself.
func (t *Tree) Child(h NodeHandle, i int) (NodeHandle, error) {
	if i < 0 || i >= blockSize {
		return NodeHandle{}, fmt.Errorf("%w: %d", ErrInvalidOctant, i)
	}
	return visit(h,
		func(n NodeHandle) (NodeHandle, error) {
			if err := t.checkFresh(n); err != nil {
				return NodeHandle{}, err
			}
			value := t.store.data[n.index]
			if value <= 0 {
				return t.ownHandle(n.index, min(n.depth+1, t.upperDepth())), nil
			}
			if n.depth == t.upperDepth() {
				sub, err := t.subs.lookup(value)
				if err != nil {
					return NodeHandle{}, err
				}
				return delegatedHandle(sub, sub.Child(sub.Root(), i)), nil
			}
			return t.ownHandle(value+int32(i), n.depth+1), nil
		},
		func(sub subindex.Index, sh subindex.Handle) (NodeHandle, error) {
			return delegatedHandle(sub, sub.Child(sh, i)), nil
		},
	)
}

// Type returns the type of a leaf node. For branches the result is
// meaningless; check IsBranch first.
func (t *Tree) Type(h NodeHandle) (int, error) {
	return visit(h,
		func(n NodeHandle) (int, error) {
			if err := t.checkFresh(n); err != nil {
				return 0, err
			}
			value := t.store.data[n.index]
			if value > 0 && n.depth == t.upperDepth() {
				sub, err := t.subs.lookup(value)
				if err != nil {
					return 0, err
				}
				return sub.Type(sub.Root()), nil
			}
			return int(-value), nil
		},
		func(sub subindex.Index, sh subindex.Handle) (int, error) {
			return sub.Type(sh), nil
		},
	)
}

// Data returns the auxiliary data of a node. Nodes carry no data in this
// representation, so it is always 0.
func (t *Tree) Data(_ NodeHandle) int {
	return 0
}
