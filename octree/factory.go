package octree

import (
	"fmt"
	"io"

	"github.com/wkalt/dagtree/implementation"
)

// FactoryName is the name under which the octree is registered.
const FactoryName = "DAG_TREE"

var _ implementation.Implementation = (*Tree)(nil)

type factory struct{}

// Factory returns the implementation factory for octrees with default options.
func Factory() implementation.Factory {
	return factory{}
}

// Register adds the octree factory to r under FactoryName.
func Register(r *implementation.Registry) error {
	return r.Register(FactoryName, Factory())
}

func (factory) Create(depth int) (implementation.Implementation, error) {
	tree, err := New(depth)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

func (factory) Load(_ io.Reader) (implementation.Implementation, error) {
	return nil, fmt.Errorf("%s load: %w", FactoryName, implementation.ErrUnsupported)
}

func (factory) IsOfType(impl implementation.Implementation) bool {
	_, ok := impl.(*Tree)
	return ok
}

func (factory) Description() string {
	return "flat node array octree down to 64^3 cubes, hash-consed DAGs below"
}
