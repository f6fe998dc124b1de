package space

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/vk/heurconf/internal/metadata"
	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/registry"
)

func ctor(ps ...params.Param) *registry.Constructor {
	return &registry.Constructor{Params: ps, New: func(params.Args) (any, error) { return nil, nil }}
}

// newCyclicRegistry builds A -> CapB and B -> CapA, so A and B depend on
// each other. Leaf also satisfies CapB and breaks the cycle. Needy depends
// on a capability whose only implementation is not autoconfigurable.
func newCyclicRegistry(t *testing.T) (*registry.Registry, *metadata.Extractor) {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.RegisterCapability("Algorithm"))
	require.NoError(t, r.RegisterAll(
		registry.ComponentType{Name: "A", Capabilities: []string{"Algorithm", "CapA"}, Constructor: ctor(params.Component("b", "CapB"))},
		registry.ComponentType{Name: "B", Capabilities: []string{"CapB"}, Constructor: ctor(params.Component("a", "CapA"))},
		registry.ComponentType{Name: "Leaf", Capabilities: []string{"CapB"}, Constructor: ctor()},
		registry.ComponentType{Name: "Solo", Capabilities: []string{"Algorithm"}, Constructor: ctor(params.Int("k", 1, 3), params.Provided("instance"))},
		registry.ComponentType{Name: "Needy", Capabilities: []string{"Algorithm"}, Constructor: ctor(params.Component("p", "Part"))},
		registry.ComponentType{Name: "Ghost", Capabilities: []string{"Part"}, Constructor: ctor(params.Undeclared("x", params.TypeInt))},
	))
	r.Freeze()
	return r, metadata.New(context.Background(), r)
}

func newExplorer(t *testing.T, opts ...Option) *Explorer {
	t.Helper()
	r, meta := newCyclicRegistry(t)
	e, err := NewExplorer(r, meta, opts...)
	require.NoError(t, err)
	return e
}

// shape renders a subtree compactly, e.g. "A{b=[B{a=[A{b=[Leaf]}]}, Leaf]}".
func shape(n *TreeNode) string {
	s := n.Component
	if len(n.Children) == 0 {
		return s
	}
	s += "{"
	first := true
	for _, p := range n.Params {
		children, ok := n.Children[p.Name]
		if !ok {
			continue
		}
		if !first {
			s += ", "
		}
		first = false
		s += p.Name + "=["
		for i, c := range children {
			if i > 0 {
				s += ", "
			}
			s += shape(c)
		}
		s += "]"
	}
	return s + "}"
}

func TestExplore_CycleTerminates(t *testing.T) {
	defer goleak.VerifyNone(t)

	testCases := []struct {
		name      string
		bounds    Bounds
		wantRoots []string
		wantA     string
		wantSize  int
	}{
		{
			name:      "depth 3 repeat 1",
			bounds:    Bounds{MaxDepth: 3, MaxRepeat: 1},
			wantRoots: []string{"A", "Solo"},
			wantA:     "A{b=[Leaf]}",
			wantSize:  3,
		},
		{
			name:      "depth 5 repeat 1",
			bounds:    Bounds{MaxDepth: 5, MaxRepeat: 1},
			wantRoots: []string{"A", "Solo"},
			wantA:     "A{b=[B{a=[A{b=[Leaf]}]}, Leaf]}",
			wantSize:  6,
		},
		{
			name:      "depth 1 prunes every recursive root",
			bounds:    Bounds{MaxDepth: 1, MaxRepeat: 3},
			wantRoots: []string{"Solo"},
			wantSize:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newExplorer(t)
			f, err := e.Explore(context.Background(), tc.bounds)
			require.NoError(t, err)

			assert.Equal(t, tc.wantRoots, f.RootNames())
			assert.Equal(t, tc.wantSize, f.Size())
			if tc.wantA != "" {
				assert.Equal(t, tc.wantA, shape(f.Roots[0]))
			}
		})
	}
}

func TestExpand_LeavesContextBalanced(t *testing.T) {
	e := newExplorer(t)
	for _, b := range []Bounds{{3, 1}, {5, 1}, {6, 2}, {1, 1}} {
		for _, root := range []string{"A", "B", "Needy", "Solo", "Ghost"} {
			tc := NewTreeContext(b)
			e.expand(context.Background(), tc, "", root)
			assert.True(t, tc.Balanced(), "root %s bounds %+v", root, b)
		}
	}
}

func TestExplore_NoPartialNodes(t *testing.T) {
	e := newExplorer(t)
	f, err := e.Explore(context.Background(), Bounds{MaxDepth: 6, MaxRepeat: 2})
	require.NoError(t, err)

	assert.NotContains(t, f.RootNames(), "Needy")
	for _, root := range f.Roots {
		root.Walk(func(n *TreeNode) {
			assert.NotEqual(t, "Ghost", n.Component)
			for _, p := range n.Params {
				if p.Recursive() {
					assert.NotEmpty(t, n.Children[p.Name], "%s.%s has no alternatives", n.Component, p.Name)
				}
			}
		})
	}
}

func TestExplore_BoundsAndCache(t *testing.T) {
	t.Run("invalid bounds", func(t *testing.T) {
		e := newExplorer(t)
		for _, b := range []Bounds{{0, 1}, {1, 0}, {-1, -1}} {
			_, err := e.Explore(context.Background(), b)
			assert.ErrorIs(t, err, ErrInvalidBounds)
		}
	})

	t.Run("forests are cached per bounds", func(t *testing.T) {
		e := newExplorer(t)
		first, err := e.Explore(context.Background(), Bounds{MaxDepth: 3, MaxRepeat: 1})
		require.NoError(t, err)
		second, err := e.Explore(context.Background(), Bounds{MaxDepth: 3, MaxRepeat: 1})
		require.NoError(t, err)
		assert.Same(t, first, second)

		other, err := e.Explore(context.Background(), Bounds{MaxDepth: 4, MaxRepeat: 1})
		require.NoError(t, err)
		assert.NotSame(t, first, other)
	})

	t.Run("cache disabled", func(t *testing.T) {
		e := newExplorer(t, WithCacheSize(0))
		first, err := e.Explore(context.Background(), Bounds{MaxDepth: 3, MaxRepeat: 1})
		require.NoError(t, err)
		second, err := e.Explore(context.Background(), Bounds{MaxDepth: 3, MaxRepeat: 1})
		require.NoError(t, err)
		assert.NotSame(t, first, second)
		assert.Equal(t, shape(first.Roots[0]), shape(second.Roots[0]))
	})

	t.Run("invalid options", func(t *testing.T) {
		r, meta := newCyclicRegistry(t)
		_, err := NewExplorer(r, meta, WithWorkers(0))
		assert.Error(t, err)
		_, err = NewExplorer(r, meta, WithCacheSize(-1))
		assert.Error(t, err)
	})
}

func TestExplore_RootCapability(t *testing.T) {
	e := newExplorer(t, WithRootCapability("CapB"))
	assert.Equal(t, []string{"B", "Leaf"}, e.Roots())

	f, err := e.Explore(context.Background(), Bounds{MaxDepth: 3, MaxRepeat: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "Leaf"}, f.RootNames())
	assert.Equal(t, "B{a=[A{b=[Leaf]}]}", shape(f.Roots[0]))
}

func TestExploreRoot_Pruned(t *testing.T) {
	e := newExplorer(t)
	n, err := e.ExploreRoot(context.Background(), "Needy", Bounds{MaxDepth: 4, MaxRepeat: 1})
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = e.ExploreRoot(context.Background(), "Unknown", Bounds{MaxDepth: 4, MaxRepeat: 1})
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestExplore_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := newExplorer(t, WithWorkers(2), WithCacheSize(2))
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		b := Bounds{MaxDepth: 2 + i%4, MaxRepeat: 1 + i%2}
		g.Go(func() error {
			f, err := e.Explore(context.Background(), b)
			if err != nil {
				return err
			}
			assert.Contains(t, f.RootNames(), "Solo")
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestForest_YAML(t *testing.T) {
	e := newExplorer(t)
	f, err := e.Explore(context.Background(), Bounds{MaxDepth: 3, MaxRepeat: 1})
	require.NoError(t, err)

	out, err := f.YAML()
	require.NoError(t, err)
	doc := string(out)
	assert.Contains(t, doc, "max_depth: 3")
	assert.Contains(t, doc, "component: Leaf")
	assert.Contains(t, doc, "k integer[1, 3]")
	assert.NotContains(t, doc, "instance", "provided parameters are not part of the space")
}
