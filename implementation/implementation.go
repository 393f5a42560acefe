package implementation

import (
	"context"
	"io"
	"sort"

	"golang.org/x/exp/maps"
)

/*
Package implementation is the extension point through which voxel index
implementations are made available by name. A Registry is an explicit value:
callers build one, register the factories they want, and pass it to whatever
needs to construct indexes. There is no process-global table and no
registration at init time.
*/

////////////////////////////////////////////////////////////////////////////////

// Implementation is a voxel index of a cube of edge 2^Depth().
type Implementation interface {
	Depth() int
	Set(ctx context.Context, typ, x, y, z int) error
	Get(x, y, z int) (int, error)
	EndFinalization(ctx context.Context)
	NodeCount() int64
}

// Factory constructs implementations of one kind.
type Factory interface {
	// Create returns an empty implementation of the given depth.
	Create(depth int) (Implementation, error)

	// Load reads a serialized implementation.
	Load(r io.Reader) (Implementation, error)

	// IsOfType reports whether impl was produced by this factory.
	IsOfType(impl Implementation) bool

	// Description is a one-line human readable description.
	Description() string
}

// Registry maps names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, f Factory) error {
	if _, ok := r.factories[name]; ok {
		return DuplicateFactoryError{name}
	}
	r.factories[name] = f
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, UnknownFactoryError{name}
	}
	return f, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := maps.Keys(r.factories)
	sort.Strings(names)
	return names
}

// Create constructs an empty implementation using the factory registered under
// name.
func (r *Registry) Create(name string, depth int) (Implementation, error) {
	f, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return f.Create(depth)
}

// Identify returns the name of the factory that produced impl.
func (r *Registry) Identify(impl Implementation) (string, error) {
	for _, name := range r.Names() {
		if r.factories[name].IsOfType(impl) {
			return name, nil
		}
	}
	return "", ErrUnidentified
}
