package builder

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vk/heurconf/internal/params"
	"github.com/vk/heurconf/internal/parser"
	"github.com/vk/heurconf/internal/registry"
)

type inner struct{ Y int }

type outer struct{ X any }

type typed struct{ args params.Args }

type madeByFactory struct{ T float64 }

type madeFactory struct{}

func (madeFactory) Produces() registry.ComponentType {
	return registry.ComponentType{Name: "Made", Capabilities: []string{"Part"}}
}
func (madeFactory) Params() []params.Param { return []params.Param{params.Real("t", 0, 1)} }
func (madeFactory) New(args params.Args) (any, error) {
	return madeByFactory{T: args.Float("t")}, nil
}

var errBroken = errors.New("boom")

type fixture struct {
	builder    *Builder
	outerCalls *atomic.Int32
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	outerCalls := &atomic.Int32{}

	r := registry.New()
	require.NoError(t, r.RegisterCapability("Part"))
	require.NoError(t, r.RegisterAll(
		registry.ComponentType{
			Name:         "Inner",
			Capabilities: []string{"Part"},
			Constructor: &registry.Constructor{
				Params: []params.Param{params.Int("y", 0, 10)},
				New:    func(a params.Args) (any, error) { return inner{Y: a.Int("y")}, nil },
			},
		},
		registry.ComponentType{
			Name: "Outer",
			Constructor: &registry.Constructor{
				Params: []params.Param{params.Component("x", "Part")},
				New: func(a params.Args) (any, error) {
					outerCalls.Add(1)
					return outer{X: a.Value("x")}, nil
				},
			},
		},
		registry.ComponentType{
			Name: "Typed",
			Constructor: &registry.Constructor{
				Params: []params.Param{
					params.Undeclared("i", params.TypeInt).OrNull(),
					params.Real("r", 0, 10).OrNull(),
					params.Categorical("flag", params.TypeBool, "true", "false").OrNull(),
					params.Undeclared("c", params.TypeChar).OrNull(),
					params.Categorical("s", params.TypeString, `"hi"`, `"lo"`).OrNull(),
					params.Undeclared("is", params.TypeIntList),
					params.Undeclared("rs", params.TypeRealList),
					params.Undeclared("ss", params.TypeStringList),
					params.Provided("instance"),
				},
				New: func(a params.Args) (any, error) { return typed{args: a}, nil },
			},
		},
		registry.ComponentType{
			Name: "Defaulted",
			Constructor: &registry.Constructor{
				Params: []params.Param{
					params.Int("n", 1, 5).WithDefault("3"),
					params.Component("part", "Part").WithDefault("Inner{y=7}"),
				},
				New: func(a params.Args) (any, error) { return typed{args: a}, nil },
			},
		},
		registry.ComponentType{
			Name: "Broken",
			Constructor: &registry.Constructor{
				New: func(params.Args) (any, error) { return nil, errBroken },
			},
		},
		registry.ComponentType{Name: "Bare"},
	))
	require.NoError(t, r.RegisterFactory(madeFactory{}))
	require.NoError(t, r.RegisterAlias("Wrapper", "Outer"))
	r.Freeze()

	return fixture{builder: New(r), outerCalls: outerCalls}
}

func TestBuildString_Components(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("nested round trip", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, "Outer{x=Inner{y=5}}")
		require.NoError(t, err)
		o, ok := got.(outer)
		require.True(t, ok)
		assert.Equal(t, inner{Y: 5}, o.X)
	})

	t.Run("alias builds the target", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, "Wrapper{x=Inner{y=1}}")
		require.NoError(t, err)
		assert.Equal(t, outer{X: inner{Y: 1}}, got)
	})

	t.Run("omitted component parameter is nil", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, "Outer{}")
		require.NoError(t, err)
		assert.Equal(t, outer{}, got)

		got, err = f.builder.BuildString(ctx, "Outer{x=null}")
		require.NoError(t, err)
		assert.Equal(t, outer{}, got)
	})

	t.Run("factory is used for its product", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, "Outer{x=Made{t=1}}")
		require.NoError(t, err)
		assert.Equal(t, outer{X: madeByFactory{T: 1}}, got)
	})

	t.Run("defaults are parsed and built", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, "Defaulted{}")
		require.NoError(t, err)
		args := got.(typed).args
		assert.Equal(t, 3, args.Int("n"))
		assert.Equal(t, inner{Y: 7}, args.Value("part"))
	})

	t.Run("supplied value wins over default", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, "Defaulted{n=5, part=null}")
		require.NoError(t, err)
		args := got.(typed).args
		assert.Equal(t, 5, args.Int("n"))
		assert.True(t, args.Has("part"))
		assert.Nil(t, args.Value("part"))
	})
}

func TestBuildString_Literals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	got, err := f.builder.BuildString(ctx, `Typed{i=1, r=2, flag=true, c='x', s="hi", is=[1, 2], rs=[1, 2.5], ss=["a", "b"], instance=[1, null]}`)
	require.NoError(t, err)
	args := got.(typed).args

	assert.Equal(t, 1, args.Int("i"))
	assert.Equal(t, 2.0, args.Float("r"))
	assert.True(t, args.Bool("flag"))
	assert.Equal(t, 'x', args.Char("c"))
	assert.Equal(t, "hi", args.Text("s"))
	assert.Equal(t, []int{1, 2}, args.Ints("is"))
	assert.Equal(t, []float64{1, 2.5}, args.Floats("rs"))
	assert.Equal(t, []string{"a", "b"}, args.Strings("ss"))
	assert.Equal(t, []any{1, nil}, args.Value("instance"))

	t.Run("one-character string converts to char", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, `Typed{c="y"}`)
		require.NoError(t, err)
		assert.Equal(t, 'y', got.(typed).args.Char("c"))
	})

	t.Run("same-typed literals bind directly", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, `Typed{i=-4, r=0.25, flag=false, s="lo"}`)
		require.NoError(t, err)
		args := got.(typed).args
		assert.Equal(t, -4, args.Int("i"))
		assert.Equal(t, 0.25, args.Float("r"))
		assert.False(t, args.Bool("flag"))
		assert.Equal(t, "lo", args.Text("s"))
	})

	t.Run("strings are kept byte for byte", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, `Typed{s="e\u0301", ss=["e\u0301", 'x']}`)
		require.NoError(t, err)
		args := got.(typed).args
		assert.Equal(t, "e\u0301", args.Text("s"))
		assert.Equal(t, []string{"e\u0301", "x"}, args.Strings("ss"))
	})

	t.Run("empty list", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, `Typed{is=[]}`)
		require.NoError(t, err)
		assert.Empty(t, got.(typed).args.Ints("is"))
	})

	t.Run("top-level literals evaluate to Go values", func(t *testing.T) {
		got, err := f.builder.BuildString(ctx, `[1, 2.5, 'a', "s", true, null]`)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2.5, 'a', "s", true, nil}, got)
	})
}

func TestBuildString_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name     string
		input    string
		wantErr  error
		wantPath string
		wantName string
	}{
		{name: "unknown component", input: "Nope{}", wantErr: ErrUnknownComponent, wantName: "Nope"},
		{name: "nested unknown component", input: "Outer{x=Nope{}}", wantErr: ErrUnknownComponent, wantPath: "Outer.x", wantName: "Nope"},
		{name: "unknown parameter", input: "Inner{z=1}", wantErr: ErrUnknownParameter, wantPath: "Inner", wantName: "z"},
		{name: "nested unknown parameter", input: "Outer{x=Inner{z=1}}", wantErr: ErrUnknownParameter, wantPath: "Outer.x.Inner", wantName: "z"},
		{name: "missing parameter", input: "Inner{}", wantErr: ErrMissingParameter, wantPath: "Inner", wantName: "y"},
		{name: "null to primitive", input: "Inner{y=null}", wantErr: ErrTypeMismatch, wantPath: "Inner", wantName: "y"},
		{name: "fraction to int", input: "Inner{y=2.5}", wantErr: ErrTypeMismatch, wantPath: "Inner", wantName: "y"},
		{name: "string to int", input: `Inner{y="5"}`, wantErr: ErrTypeMismatch, wantPath: "Inner", wantName: "y"},
		{name: "bool to real", input: "Typed{r=true}", wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "r"},
		{name: "two characters to char", input: `Typed{c="ab"}`, wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "c"},
		{name: "null inside int list", input: "Typed{is=[1, null]}", wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "is"},
		{name: "int to string", input: "Typed{s=5}", wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "s"},
		{name: "bool to string", input: "Typed{s=true}", wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "s"},
		{name: "numbers inside string list", input: "Typed{ss=[1, true]}", wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "ss"},
		{name: "int to char", input: "Typed{c=7}", wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "c"},
		{name: "string list given a string", input: `Typed{ss="a"}`, wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "ss"},
		{name: "component inside list", input: "Typed{ss=[Inner{y=1}]}", wantErr: ErrTypeMismatch, wantPath: "Typed", wantName: "ss"},
		{name: "component to int", input: "Inner{y=Inner{y=1}}", wantErr: ErrTypeMismatch, wantPath: "Inner", wantName: "y"},
		{name: "literal to component", input: "Outer{x=5}", wantErr: ErrTypeMismatch, wantPath: "Outer", wantName: "x"},
		{name: "no constructor", input: "Bare{}", wantErr: ErrNotInstantiable, wantName: "Bare"},
		{name: "constructor error", input: "Outer{x=Broken{}}", wantErr: errBroken, wantPath: "Outer.x", wantName: "Broken"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.builder.BuildString(ctx, tc.input)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tc.wantErr)

			var re *ResolutionError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tc.wantPath, re.Path)
			assert.Equal(t, tc.wantName, re.Name)
		})
	}

	t.Run("syntax errors pass through", func(t *testing.T) {
		_, err := f.builder.BuildString(ctx, "Outer{")
		var se *parser.SyntaxError
		assert.ErrorAs(t, err, &se)
	})

	t.Run("constructor error is marked", func(t *testing.T) {
		_, err := f.builder.BuildString(ctx, "Broken{}")
		assert.ErrorIs(t, err, ErrConstructorFailed)
		assert.EqualError(t, err, "'Broken': constructor failed: boom")
	})
}

func TestBuild_ArgumentsBeforeConstructor(t *testing.T) {
	f := newFixture(t)

	_, err := f.builder.BuildString(context.Background(), "Outer{x=Inner{y=null}}")
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Zero(t, f.outerCalls.Load(), "outer constructor must not run when an argument fails")
}

func TestBuildComponent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("host values", func(t *testing.T) {
		got, err := f.builder.BuildComponent(ctx, "Inner", map[string]any{"y": 3})
		require.NoError(t, err)
		assert.Equal(t, inner{Y: 3}, got)
	})

	t.Run("int converts to real", func(t *testing.T) {
		got, err := f.builder.BuildComponent(ctx, "Typed", map[string]any{"r": 2, "is": []int{4}, "c": 'q'})
		require.NoError(t, err)
		args := got.(typed).args
		assert.Equal(t, 2.0, args.Float("r"))
		assert.Equal(t, []int{4}, args.Ints("is"))
		assert.Equal(t, 'q', args.Char("c"))
	})

	t.Run("component given as expression", func(t *testing.T) {
		got, err := f.builder.BuildComponent(ctx, "Wrapper", map[string]any{"x": "Inner{y=2}"})
		require.NoError(t, err)
		assert.Equal(t, outer{X: inner{Y: 2}}, got)
	})

	t.Run("component given as value", func(t *testing.T) {
		got, err := f.builder.BuildComponent(ctx, "Outer", map[string]any{"x": inner{Y: 9}})
		require.NoError(t, err)
		assert.Equal(t, outer{X: inner{Y: 9}}, got)
	})

	t.Run("text values", func(t *testing.T) {
		got, err := f.builder.BuildComponent(ctx, "Typed", map[string]any{"s": "e\u0301", "c": "z", "ss": []any{"a", "b"}})
		require.NoError(t, err)
		args := got.(typed).args
		assert.Equal(t, "e\u0301", args.Text("s"))
		assert.Equal(t, 'z', args.Char("c"))
		assert.Equal(t, []string{"a", "b"}, args.Strings("ss"))
	})

	t.Run("number to string", func(t *testing.T) {
		for name, v := range map[string]any{"s": 5, "c": 7.5, "ss": []int{1}} {
			_, err := f.builder.BuildComponent(ctx, "Typed", map[string]any{name: v})
			assert.ErrorIs(t, err, ErrTypeMismatch, name)
		}
	})

	t.Run("nil to primitive", func(t *testing.T) {
		_, err := f.builder.BuildComponent(ctx, "Inner", map[string]any{"y": nil})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("unknown parameter", func(t *testing.T) {
		_, err := f.builder.BuildComponent(ctx, "Inner", map[string]any{"y": 1, "z": 2})
		assert.ErrorIs(t, err, ErrUnknownParameter)
	})

	t.Run("unsupported host type", func(t *testing.T) {
		_, err := f.builder.BuildComponent(ctx, "Inner", map[string]any{"y": struct{}{}})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})
}

func TestBuild_Concurrent(t *testing.T) {
	f := newFixture(t)

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		y := i % 11
		g.Go(func() error {
			got, err := f.builder.BuildString(context.Background(), fmt.Sprintf("Outer{x=Inner{y=%d}}", y))
			if err != nil {
				return err
			}
			if want := (outer{X: inner{Y: y}}); got != want {
				return fmt.Errorf("got %v, want %v", got, want)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
