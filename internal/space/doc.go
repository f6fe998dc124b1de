// Package space enumerates the candidate configuration space of every
// top-level algorithm.
//
// Exploration starts at each autoconfigurable component that satisfies the
// root capability and expands every component parameter into one child per
// implementation of its capability. The component graph may contain cycles
// (a local search holding another local search), so every walk is bounded
// by a TreeContext: a branch never holds more than MaxDepth components and
// a (capability, component) derivation is taken at most MaxRepeat times on
// one branch. A node with a component parameter that has no valid child is
// pruned, so the returned forest never contains partial configurations.
package space
