package browser

import "fmt"

// SessionStartError indicates the driver or browser process could not
// be brought up. Nothing has been navigated when it is returned.
type SessionStartError struct {
	DriverDir string
	Err       error
}

func (e *SessionStartError) Error() string {
	return fmt.Sprintf("session start failed (driver dir %s): %v", e.DriverDir, e.Err)
}

func (e *SessionStartError) Unwrap() error { return e.Err }

// NavigationError indicates a page load failed or timed out.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation to %s failed: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ElementNotFoundError indicates a locator matched no element within
// the session's wait window.
type ElementNotFoundError struct {
	Locator Locator
	Err     error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %s not found: %v", e.Locator, e.Err)
}

func (e *ElementNotFoundError) Unwrap() error { return e.Err }

// ElementNotInteractableError indicates the element exists but could
// not receive the requested input or click.
type ElementNotInteractableError struct {
	Locator Locator
	Action  string
	Err     error
}

func (e *ElementNotInteractableError) Error() string {
	return fmt.Sprintf("element %s not interactable (%s): %v", e.Locator, e.Action, e.Err)
}

func (e *ElementNotInteractableError) Unwrap() error { return e.Err }
