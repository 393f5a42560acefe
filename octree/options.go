package octree

import "github.com/wkalt/dagtree/subindex"

/*
Options for the octree.
*/

////////////////////////////////////////////////////////////////////////////////

type config struct {
	initialCapacity int
	maxNodes        int
	subIndexFactory subindex.Factory
	strictHandles   bool
}

// Option is a function that modifies the octree configuration.
type Option func(*config)

// WithInitialCapacity sets the initial length of the node array, in slots. It
// is rounded up to one block.
func WithInitialCapacity(slots int) Option {
	return func(c *config) {
		c.initialCapacity = slots
	}
}

// WithMaxNodes caps the length of the node array, in slots. Growth past the
// cap fails with a CapacityExceededError. The default is the largest array
// addressable with int32 offsets.
func WithMaxNodes(slots int) Option {
	return func(c *config) {
		c.maxNodes = slots
	}
}

// WithSubIndexFactory sets the constructor used for the sub-index of each
// touched 64^3 cube.
func WithSubIndexFactory(f subindex.Factory) Option {
	return func(c *config) {
		c.subIndexFactory = f
	}
}

// WithStrictHandles makes handle operations fail with a StaleHandleError when
// the handle predates the latest node array reallocation.
func WithStrictHandles() Option {
	return func(c *config) {
		c.strictHandles = true
	}
}
