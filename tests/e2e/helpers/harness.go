// Package helpers wires the browser session layer and the fixture
// site into the test runner: acquisition with guaranteed teardown,
// screenshot capture on failure, and a hermetic target to point the
// scenario at.
package helpers

import (
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/authsmoke-io/authsmoke/internal/browser"
	"github.com/authsmoke-io/authsmoke/internal/config"
	"github.com/authsmoke-io/authsmoke/internal/fixture"
)

// StartFixture serves the hermetic login site on a loopback port for
// the duration of the test and returns its base URL. Credentials come
// from the harness config (tomsmith by default).
func StartFixture(t *testing.T) string {
	t.Helper()

	cfg := config.Get()
	users, err := fixture.NewUserStore(cfg.Target.Username, cfg.Target.Password)
	require.NoError(t, err, "seeding fixture user store")

	srv := httptest.NewServer(fixture.New(users, fixture.RandomSecret()).Handler())
	t.Cleanup(func() {
		srv.Close()
		users.Close()
	})
	return srv.URL
}

// AcquireSession yields a live browser session scoped to the test.
// Release is registered immediately and runs on every exit path; a
// failed test additionally gets a screenshot before the session goes
// away. Browser tests are skipped in -short mode.
func AcquireSession(t *testing.T, timeout ...time.Duration) *browser.Session {
	t.Helper()
	if testing.Short() {
		t.Skip("browser session not available in -short mode")
	}

	cfg := config.Get()
	opts := cfg.SessionOptions()
	if len(timeout) > 0 {
		opts.Timeout = timeout[0]
	}

	if _, err := os.Stat(opts.DriverDir); err != nil {
		t.Skipf("driver dir %s not present, run 'authsmoke install' first", opts.DriverDir)
	}

	sess, err := browser.Acquire(opts)
	require.NoError(t, err, "failed to acquire browser session (run 'authsmoke install' first)")

	t.Cleanup(func() {
		if t.Failed() && cfg.Output.Screenshots {
			path := filepath.Join(cfg.Output.ScreenshotDir,
				fmt.Sprintf("%s_%d.png", t.Name(), time.Now().Unix()))
			if err := sess.Screenshot(path); err == nil {
				t.Logf("screenshot saved to %s", path)
			}
		}
		sess.Close()
	})
	return sess
}
