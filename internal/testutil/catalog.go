package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/heurconf/internal/builder"
	"github.com/vk/heurconf/internal/registry"
)

// Catalog discovers the given modules into a frozen registry and returns a
// builder over it.
func Catalog(t *testing.T, modules ...registry.Module) (*registry.Registry, *builder.Builder) {
	t.Helper()
	r, err := registry.Discover(context.Background(), modules...)
	require.NoError(t, err)
	r.Freeze()
	return r, builder.New(r)
}

// MustBuild builds expr and fails the test on error.
func MustBuild(t *testing.T, b *builder.Builder, expr string) any {
	t.Helper()
	v, err := b.BuildString(context.Background(), expr)
	require.NoError(t, err, "building %s", expr)
	return v
}
