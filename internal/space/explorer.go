package space

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/vk/heurconf/internal/ctxlog"
	"github.com/vk/heurconf/internal/metadata"
	"github.com/vk/heurconf/internal/registry"
)

// ErrUnbalanced means a walk returned with a non-empty branch or derivation
// count. It indicates a bug in the explorer, never a property of the input.
var ErrUnbalanced = errors.New("tree context not balanced after walk")

const (
	DefaultRootCapability = "Algorithm"
	DefaultCacheSize      = 16
)

// Explorer enumerates candidate spaces over a frozen registry.
type Explorer struct {
	reg            *registry.Registry
	meta           *metadata.Extractor
	rootCapability string
	workers        int
	cacheSize      int
	cache          *lru.Cache[Bounds, *Forest]
}

// Option configures an Explorer.
type Option func(*Explorer)

// WithRootCapability sets the capability that marks top-level algorithms.
func WithRootCapability(capability string) Option {
	return func(e *Explorer) { e.rootCapability = capability }
}

// WithWorkers limits how many roots are explored at once.
func WithWorkers(n int) Option {
	return func(e *Explorer) { e.workers = n }
}

// WithCacheSize sets how many forests are kept. Zero disables caching.
func WithCacheSize(n int) Option {
	return func(e *Explorer) { e.cacheSize = n }
}

func NewExplorer(reg *registry.Registry, meta *metadata.Extractor, opts ...Option) (*Explorer, error) {
	e := &Explorer{
		reg:            reg,
		meta:           meta,
		rootCapability: DefaultRootCapability,
		workers:        runtime.GOMAXPROCS(0),
		cacheSize:      DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		return nil, fmt.Errorf("explorer workers must be positive, got %d", e.workers)
	}
	if e.cacheSize < 0 {
		return nil, fmt.Errorf("explorer cache size must not be negative, got %d", e.cacheSize)
	}
	if e.cacheSize > 0 {
		cache, err := lru.New[Bounds, *Forest](e.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create forest cache: %w", err)
		}
		e.cache = cache
	}
	return e, nil
}

// Roots returns the autoconfigurable components with the root capability.
func (e *Explorer) Roots() []string {
	return e.candidates(e.rootCapability)
}

// Explore returns the candidate space of every root. Roots are walked
// concurrently, each with its own TreeContext; roots pruned entirely are
// left out. Forests are cached per bounds and the same *Forest is returned
// to every caller asking for those bounds; it must not be modified.
func (e *Explorer) Explore(ctx context.Context, b Bounds) (*Forest, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	logger := ctxlog.FromContext(ctx)
	if e.cache != nil {
		if f, ok := e.cache.Get(b); ok {
			logger.Debug("Candidate space served from cache.", "max_depth", b.MaxDepth, "max_repeat", b.MaxRepeat)
			return f, nil
		}
	}

	roots := e.Roots()
	trees := make([]*TreeNode, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, root := range roots {
		if gctx.Err() != nil {
			break
		}
		i, root := i, root
		g.Go(func() error {
			tree, err := e.ExploreRoot(gctx, root, b)
			if err != nil {
				return err
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := &Forest{Bounds: b}
	for _, t := range trees {
		if t != nil {
			f.Roots = append(f.Roots, t)
		}
	}
	logger.Info("Candidate space explored.",
		"max_depth", b.MaxDepth,
		"max_repeat", b.MaxRepeat,
		"roots", len(roots),
		"kept_roots", len(f.Roots),
		"nodes", f.Size(),
	)

	if e.cache != nil {
		e.cache.Add(b, f)
	}
	return f, nil
}

// ExploreRoot walks the candidate space of a single component. A nil node
// with a nil error means the component was pruned.
func (e *Explorer) ExploreRoot(ctx context.Context, root string, b Bounds) (*TreeNode, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	ctx = ctxlog.With(ctx, "root", root)
	logger := ctxlog.FromContext(ctx)

	tc := NewTreeContext(b)
	tree := e.expand(ctx, tc, "", root)
	if !tc.Balanced() {
		return nil, fmt.Errorf("%w: root %s, branch %v", ErrUnbalanced, root, tc.Branch())
	}
	if tree == nil {
		logger.Debug("Root pruned: no complete configuration within bounds.")
	}
	return tree, nil
}

func (e *Explorer) expand(ctx context.Context, tc *TreeContext, param, name string) *TreeNode {
	ps, err := e.meta.ParametersOf(name)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Pruned unresolvable component.", "component", name, "error", err)
		return nil
	}

	tc.Push(name)
	defer tc.Pop()

	node := &TreeNode{Param: param, Component: name, Params: ps}
	for _, p := range ps {
		if !p.Recursive() {
			continue
		}
		var children []*TreeNode
		for _, candidate := range e.candidates(p.Capability) {
			d := Derivation{Capability: p.Capability, Component: candidate}
			if !tc.InLimits(d) {
				continue
			}
			tc.Enter(d)
			child := e.expand(ctx, tc, p.Name, candidate)
			tc.Leave(d)
			if child != nil {
				children = append(children, child)
			}
		}
		if len(children) == 0 {
			ctxlog.FromContext(ctx).Debug("Pruned component: parameter has no valid alternative.",
				"component", name, "param", p.Name, "capability", p.Capability, "depth", tc.Depth())
			return nil
		}
		if node.Children == nil {
			node.Children = make(map[string][]*TreeNode)
		}
		node.Children[p.Name] = children
	}
	return node
}

// candidates lists the autoconfigurable implementations of a capability,
// ordered by name.
func (e *Explorer) candidates(capability string) []string {
	var names []string
	for _, t := range e.reg.ByCapability(capability) {
		if e.meta.Resolvable(t.Name) {
			names = append(names, t.Name)
		}
	}
	return names
}
