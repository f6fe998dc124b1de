package integrationtests

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/heurconf/internal/app"
	"github.com/vk/heurconf/internal/testutil"
)

// setup writes the settings files into a temporary directory, loads them
// the way the CLI does, and creates the app.
func setup(t *testing.T, files map[string]string, overrides app.Config) (*app.App, *testutil.SafeBuffer) {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}

	overrides.SettingsPaths = []string{dir}
	settings, err := overrides.Settings(context.Background())
	require.NoError(t, err)
	return app.SetupAppTest(t, settings)
}

// paramLine is one parsed line of an irace parameter file.
type paramLine struct {
	name      string
	typ       string
	values    []string
	parent    string
	parentVal string
}

var lineRe = regexp.MustCompile(`^(\S+) "--(\S+)=" ([ircon]) \(([^)]*)\)(?: \| (\S+) == "([^"]*)")?$`)

func parseLines(t *testing.T, text string) []paramLine {
	t.Helper()
	var out []paramLine
	for _, l := range strings.Split(strings.TrimSpace(text), "\n") {
		m := lineRe.FindStringSubmatch(l)
		require.NotNil(t, m, "malformed parameter line %q", l)
		require.Equal(t, m[1], m[2], "switch does not match name in %q", l)
		out = append(out, paramLine{
			name:      m[1],
			typ:       m[3],
			values:    strings.Split(m[4], ", "),
			parent:    m[5],
			parentVal: m[6],
		})
	}
	return out
}

// assign plays the tuner: it fixes ROOT to root and then every parameter
// whose condition holds, always taking the value pick selects. String
// choices lose their quotes the way a tuner passes them on.
func assign(lines []paramLine, root string, pick func([]string) string) []string {
	values := map[string]string{}
	for changed := true; changed; {
		changed = false
		for _, l := range lines {
			if _, done := values[l.name]; done {
				continue
			}
			var v string
			switch {
			case l.parent == "" && l.name == "ROOT":
				v = root
			case l.parent == "":
				v = pick(l.values)
			case values[l.parent] == l.parentVal:
				v = pick(l.values)
			default:
				continue
			}
			values[l.name] = strings.Trim(v, `"`)
			changed = true
		}
	}

	args := make([]string, 0, len(values))
	for name, v := range values {
		args = append(args, "--"+name+"="+v)
	}
	return args
}
