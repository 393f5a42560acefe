package octree

import "github.com/wkalt/dagtree/subindex"

/*
The registry holds the sub-index of every 64^3 cube that has been written.
Boundary slots in the node store refer to entries by 1-based position, so that
a zero slot still reads as an empty leaf. Entries are only ever appended.
*/

////////////////////////////////////////////////////////////////////////////////

type registry struct {
	entries []subindex.Index
}

// add appends idx and returns its 1-based reference.
func (r *registry) add(idx subindex.Index) int32 {
	r.entries = append(r.entries, idx)
	return int32(len(r.entries))
}

// lookup resolves a 1-based reference.
func (r *registry) lookup(ref int32) (subindex.Index, error) {
	if ref < 1 || int(ref) > len(r.entries) {
		return nil, ConsistencyError{ref: ref, registered: len(r.entries)}
	}
	return r.entries[ref-1], nil
}

func (r *registry) len() int {
	return len(r.entries)
}
