package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/heurconf/internal/config"
	"github.com/vk/heurconf/internal/registry"
	"github.com/vk/heurconf/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. A nil
// settings value means the defaults. Logs are captured at debug level.
func SetupAppTest(t *testing.T, settings *config.Settings, modules ...registry.Module) (*App, *testutil.SafeBuffer) {
	t.Helper()

	if settings == nil {
		settings = config.Default()
	}
	settings.Logging.Level = "debug"

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := NewApp(logBuffer, settings, modules...)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("HEURCONF_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
