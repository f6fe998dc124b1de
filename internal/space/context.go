package space

import (
	"errors"
	"fmt"
)

// ErrInvalidBounds is returned for non-positive exploration bounds.
var ErrInvalidBounds = errors.New("invalid exploration bounds")

// Bounds limits one exploration.
type Bounds struct {
	MaxDepth  int `yaml:"max_depth"`
	MaxRepeat int `yaml:"max_repeat"`
}

// Validate checks that both bounds are positive.
func (b Bounds) Validate() error {
	var errs []error
	if b.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidBounds, b.MaxDepth))
	}
	if b.MaxRepeat < 1 {
		errs = append(errs, fmt.Errorf("%w: max repeat must be positive, got %d", ErrInvalidBounds, b.MaxRepeat))
	}
	return errors.Join(errs...)
}

// Derivation is one edge taken while expanding a component parameter.
type Derivation struct {
	Capability string
	Component  string
}

func (d Derivation) String() string { return d.Capability + "->" + d.Component }

// TreeContext is the mutable state of a single walk. It is not safe for
// concurrent use; each walk owns its own.
type TreeContext struct {
	bounds Bounds
	branch []string
	counts map[Derivation]int
}

func NewTreeContext(b Bounds) *TreeContext {
	return &TreeContext{bounds: b, counts: make(map[Derivation]int)}
}

// Push appends a component to the current branch.
func (c *TreeContext) Push(component string) { c.branch = append(c.branch, component) }

// Pop removes the innermost component of the branch.
func (c *TreeContext) Pop() {
	if len(c.branch) == 0 {
		panic("space: pop on empty branch")
	}
	c.branch = c.branch[:len(c.branch)-1]
}

// Depth is the number of components on the current branch.
func (c *TreeContext) Depth() int { return len(c.branch) }

// Branch returns a copy of the current branch, outermost first.
func (c *TreeContext) Branch() []string { return append([]string(nil), c.branch...) }

// InLimits reports whether taking d keeps the branch within bounds.
func (c *TreeContext) InLimits(d Derivation) bool {
	return len(c.branch)+1 <= c.bounds.MaxDepth && c.counts[d]+1 <= c.bounds.MaxRepeat
}

// Enter records that d was taken.
func (c *TreeContext) Enter(d Derivation) { c.counts[d]++ }

// Leave undoes Enter.
func (c *TreeContext) Leave(d Derivation) {
	switch n := c.counts[d]; {
	case n <= 0:
		panic(fmt.Sprintf("space: leaving derivation %s that was never entered", d))
	case n == 1:
		delete(c.counts, d)
	default:
		c.counts[d] = n - 1
	}
}

// Uses returns how often d is taken on the current branch.
func (c *TreeContext) Uses(d Derivation) int { return c.counts[d] }

// Balanced reports whether every Push and Enter has been undone.
func (c *TreeContext) Balanced() bool { return len(c.branch) == 0 && len(c.counts) == 0 }
