package space

import (
	"github.com/vk/heurconf/internal/params"
	"gopkg.in/yaml.v3"
)

// TreeNode is one component choice in the candidate space. The explorer
// shares cached nodes between callers, so callers must treat them as
// read-only: never modify Params or Children.
type TreeNode struct {
	// Param is the parameter of the parent this node satisfies; empty for roots.
	Param     string
	Component string
	// Params is the component's full parameter list, in declaration order.
	Params []params.Param
	// Children maps each component parameter to its valid alternatives,
	// ordered by component name.
	Children map[string][]*TreeNode
}

// Size counts the nodes of the subtree.
func (n *TreeNode) Size() int {
	size := 1
	for _, children := range n.Children {
		for _, c := range children {
			size += c.Size()
		}
	}
	return size
}

// Walk visits the subtree in preorder. Children are visited parameter by
// parameter in declaration order.
func (n *TreeNode) Walk(fn func(n *TreeNode)) {
	fn(n)
	for _, p := range n.Params {
		for _, c := range n.Children[p.Name] {
			c.Walk(fn)
		}
	}
}

type yamlNode struct {
	Component string                 `yaml:"component"`
	Params    []string               `yaml:"params,omitempty"`
	Children  map[string][]*TreeNode `yaml:"children,omitempty"`
}

// MarshalYAML prints the node with its tunable parameters described inline.
func (n *TreeNode) MarshalYAML() (any, error) {
	out := yamlNode{Component: n.Component, Children: n.Children}
	for _, p := range n.Params {
		if p.Recursive() || p.Kind == params.KindProvided {
			continue
		}
		out.Params = append(out.Params, p.String())
	}
	return out, nil
}

// Forest is the candidate space of every root, ordered by root name.
type Forest struct {
	Bounds Bounds      `yaml:"bounds"`
	Roots  []*TreeNode `yaml:"roots"`
}

// RootNames returns the names of the roots that survived pruning.
func (f *Forest) RootNames() []string {
	names := make([]string, len(f.Roots))
	for i, r := range f.Roots {
		names[i] = r.Component
	}
	return names
}

// Size counts every node of the forest.
func (f *Forest) Size() int {
	size := 0
	for _, r := range f.Roots {
		size += r.Size()
	}
	return size
}

// YAML renders the forest as a YAML document.
func (f *Forest) YAML() ([]byte, error) {
	return yaml.Marshal(f)
}
