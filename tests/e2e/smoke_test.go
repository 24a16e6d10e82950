package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authsmoke-io/authsmoke/internal/preflight"
	"github.com/authsmoke-io/authsmoke/tests/e2e/helpers"
)

// TestFixtureSmoke probes the hermetic login site without a browser:
// it must be reachable and carry every element the scenario touches.
func TestFixtureSmoke(t *testing.T) {
	baseURL := helpers.StartFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	report, err := preflight.Probe(ctx, baseURL+"/login")
	require.NoError(t, err)

	assert.True(t, report.UsernameField, "username field should be present")
	assert.True(t, report.PasswordField, "password field should be present")
	assert.True(t, report.SubmitButton, "submit button should be present")
	assert.True(t, report.OK())
}
