package implementation_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/dagtree/implementation"
)

type stubImpl struct {
	depth int
}

func (s *stubImpl) Depth() int { return s.depth }
func (s *stubImpl) Set(context.Context, int, int, int, int) error { return nil }
func (s *stubImpl) Get(int, int, int) (int, error) { return 0, nil }
func (s *stubImpl) EndFinalization(context.Context) {}
func (s *stubImpl) NodeCount() int64 { return 0 }

type stubFactory struct {
	description string
}

func (f stubFactory) Create(depth int) (implementation.Implementation, error) {
	return &stubImpl{depth: depth}, nil
}

func (f stubFactory) Load(io.Reader) (implementation.Implementation, error) {
	return nil, implementation.ErrUnsupported
}

func (f stubFactory) IsOfType(impl implementation.Implementation) bool {
	_, ok := impl.(*stubImpl)
	return ok
}

func (f stubFactory) Description() string {
	return f.description
}

func TestRegister(t *testing.T) {
	r := implementation.NewRegistry()
	require.NoError(t, r.Register("B", stubFactory{"b"}))
	require.NoError(t, r.Register("A", stubFactory{"a"}))
	err := r.Register("A", stubFactory{"again"})
	require.ErrorIs(t, err, implementation.DuplicateFactoryError{})

	assert.Equal(t, []string{"A", "B"}, r.Names())
	f, err := r.Lookup("A")
	require.NoError(t, err)
	assert.Equal(t, "a", f.Description())
}

func TestLookupUnknown(t *testing.T) {
	r := implementation.NewRegistry()
	_, err := r.Lookup("missing")
	require.ErrorIs(t, err, implementation.UnknownFactoryError{})
	_, err = r.Create("missing", 8)
	require.ErrorIs(t, err, implementation.UnknownFactoryError{})
	assert.Empty(t, r.Names())
}

func TestCreateAndIdentify(t *testing.T) {
	r := implementation.NewRegistry()
	require.NoError(t, r.Register("STUB", stubFactory{}))
	impl, err := r.Create("STUB", 9)
	require.NoError(t, err)
	assert.Equal(t, 9, impl.Depth())

	name, err := r.Identify(impl)
	require.NoError(t, err)
	assert.Equal(t, "STUB", name)

	_, err = implementation.NewRegistry().Identify(impl)
	require.ErrorIs(t, err, implementation.ErrUnidentified)
}
