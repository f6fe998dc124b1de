// Package registry provides the central "glue" for the component system.
//
// The Registry maps the short names used in configuration strings (e.g.,
// "GRASP") to the component types compiled into the binary, indexes every
// type under each capability it satisfies, and records aliases and external
// factories.
//
// During application startup, Discover populates a fresh registry from the
// selected component modules. Invalid and duplicate names are collected over
// the whole pass and reported together, so a broken catalog shows all of its
// problems at once. The registry is then frozen and only read afterwards,
// which makes it safe to share between goroutines without locking.
package registry
