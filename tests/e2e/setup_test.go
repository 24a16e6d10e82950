package e2e

import (
	"os"
	"testing"

	"github.com/authsmoke-io/authsmoke/internal/config"
)

// TestSetup verifies the harness environment is configured sensibly.
func TestSetup(t *testing.T) {
	t.Log("E2E Environment Check")
	t.Log("=====================")

	cfg := config.Get()
	t.Logf("Target login URL: %s", cfg.LoginURL())
	t.Logf("Browser: %s (headless=%v, timeout=%s)", cfg.Browser.Name, cfg.Browser.Headless, cfg.Browser.Timeout)
	t.Logf("Driver dir: %s", cfg.Browser.DriverDir)

	if cfg.Target.Username == "" || cfg.Target.Password == "" {
		t.Error("target credentials not configured")
	}

	if _, err := os.Stat(cfg.Browser.DriverDir); err != nil {
		t.Logf("driver dir not present yet; browser tests need 'authsmoke install' (%v)", err)
	} else {
		t.Log("driver dir present")
	}
}
