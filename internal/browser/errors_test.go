package browser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("driver exploded")
	err := fmt.Errorf("acquiring: %w", &SessionStartError{DriverDir: "/tmp/vendor", Err: cause})

	var startErr *SessionStartError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, "/tmp/vendor", startErr.DriverDir)
	assert.ErrorIs(t, err, cause)
}

func TestNavigationErrorMessage(t *testing.T) {
	err := &NavigationError{URL: "http://example.test/login", Err: errors.New("timeout")}
	assert.Contains(t, err.Error(), "http://example.test/login")
	assert.Contains(t, err.Error(), "timeout")
}

func TestClassifyActionError(t *testing.T) {
	loc := ID("username")

	tests := []struct {
		name    string
		message string
		found   bool // true when the classification is ElementNotFoundError
	}{
		{"hidden element", "element is not visible", false},
		{"covered element", "subtree intercepts pointer events", false},
		{"disabled element", "element is disabled", false},
		{"vanished during action", "Timeout 3000ms exceeded while waiting for element", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyActionError(loc, "fill", errors.New(tt.message))
			var notFound *ElementNotFoundError
			var notInteractable *ElementNotInteractableError
			if tt.found {
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, loc, notFound.Locator)
			} else {
				require.ErrorAs(t, err, &notInteractable)
				assert.Equal(t, "fill", notInteractable.Action)
			}
		})
	}
}
