package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// Options controls how a Session is acquired.
type Options struct {
	// DriverDir is where the Playwright driver lives, conventionally
	// <cwd>/vendor. Acquire fails before touching the network if it
	// does not exist.
	DriverDir string
	Browser   string // chromium, firefox or webkit
	Headless  bool
	SlowMo    time.Duration
	Timeout   time.Duration
	Viewport  *playwright.Size
}

// DefaultDriverDir returns <cwd>/vendor, the conventional location for
// the driver installation.
func DefaultDriverDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "vendor"
	}
	return filepath.Join(cwd, "vendor")
}

// Session is one live browser-automation connection. A session is
// owned by a single test execution and is not safe for concurrent use.
type Session struct {
	ID string

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	timeout time.Duration

	closeOnce sync.Once
}

// Acquire spawns the driver and a browser and yields a live session.
// Every error path returns a *SessionStartError; no navigation has
// happened when it fails. The caller must Close the session.
func Acquire(opts Options) (*Session, error) {
	if opts.DriverDir == "" {
		opts.DriverDir = DefaultDriverDir()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if _, err := os.Stat(opts.DriverDir); err != nil {
		return nil, &SessionStartError{DriverDir: opts.DriverDir, Err: fmt.Errorf("driver dir not usable: %w", err)}
	}

	pw, err := playwright.Run(&playwright.RunOptions{
		DriverDirectory:     opts.DriverDir,
		SkipInstallBrowsers: true,
	})
	if err != nil {
		return nil, &SessionStartError{DriverDir: opts.DriverDir, Err: fmt.Errorf("could not start driver: %w", err)}
	}

	browserType := pw.Chromium
	switch opts.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, &SessionStartError{DriverDir: opts.DriverDir, Err: fmt.Errorf("could not launch %s: %w", opts.Browser, err)}
	}

	viewport := opts.Viewport
	if viewport == nil {
		viewport = &playwright.Size{Width: 1280, Height: 720}
	}
	ctx, err := b.NewContext(playwright.BrowserNewContextOptions{Viewport: viewport})
	if err != nil {
		_ = b.Close()
		_ = pw.Stop()
		return nil, &SessionStartError{DriverDir: opts.DriverDir, Err: fmt.Errorf("could not create context: %w", err)}
	}

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		_ = b.Close()
		_ = pw.Stop()
		return nil, &SessionStartError{DriverDir: opts.DriverDir, Err: fmt.Errorf("could not create page: %w", err)}
	}
	page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	return &Session{
		ID:      uuid.NewString(),
		pw:      pw,
		browser: b,
		context: ctx,
		page:    page,
		timeout: opts.Timeout,
	}, nil
}

// Close signals the driver to close all windows and stops the
// underlying processes. Safe to call more than once; release runs
// exactly once regardless of how many exit paths reach it.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.page != nil {
			_ = s.page.Close()
		}
		if s.context != nil {
			_ = s.context.Close()
		}
		if s.browser != nil {
			_ = s.browser.Close()
		}
		if s.pw != nil {
			_ = s.pw.Stop()
		}
	})
}

// NavigateTo loads the given URL and blocks until the navigation
// settles or the driver reports failure.
func (s *Session) NavigateTo(url string) error {
	if _, err := s.page.Goto(url); err != nil {
		return &NavigationError{URL: url, Err: err}
	}
	return nil
}

// Find waits for exactly one element matching the locator.
func (s *Session) Find(loc Locator) (playwright.Locator, error) {
	el := s.page.Locator(loc.Selector())
	if err := el.WaitFor(); err != nil {
		return nil, &ElementNotFoundError{Locator: loc, Err: err}
	}
	return el, nil
}

// Fill locates the element and types the literal text into it.
func (s *Session) Fill(loc Locator, text string) error {
	el, err := s.Find(loc)
	if err != nil {
		return err
	}
	if err := el.Fill(text); err != nil {
		return classifyActionError(loc, "fill", err)
	}
	return nil
}

// Click locates the element and dispatches a click.
func (s *Session) Click(loc Locator) error {
	el, err := s.Find(loc)
	if err != nil {
		return err
	}
	if err := el.Click(); err != nil {
		return classifyActionError(loc, "click", err)
	}
	return nil
}

// WaitSettled blocks until in-flight requests triggered by the last
// action have finished, so post-submit state can be inspected.
func (s *Session) WaitSettled() error {
	return s.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// Text returns the text content of the first matching element, or an
// empty string and false when nothing matches right now (no waiting).
func (s *Session) Text(loc Locator) (string, bool) {
	el := s.page.Locator(loc.Selector())
	count, err := el.Count()
	if err != nil || count == 0 {
		return "", false
	}
	text, err := el.First().TextContent()
	if err != nil {
		return "", false
	}
	return text, true
}

// URL reports the page's current address.
func (s *Session) URL() string {
	return s.page.URL()
}

// Page exposes the underlying Playwright page for interactions the
// session wrapper does not cover.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Screenshot writes a full-page capture to path, creating parent
// directories as needed. Used by test teardown on failure.
func (s *Session) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	return err
}

// classifyActionError separates "present but unusable" from lookups
// that raced the element disappearing. Playwright reports both through
// message text, so this matches the phrases it emits.
func classifyActionError(loc Locator, action string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, "not visible") ||
		strings.Contains(msg, "intercepts pointer events") ||
		strings.Contains(msg, "disabled") ||
		strings.Contains(msg, "not an <input>") {
		return &ElementNotInteractableError{Locator: loc, Action: action, Err: err}
	}
	if strings.Contains(msg, "waiting for") || strings.Contains(msg, "Timeout") {
		return &ElementNotFoundError{Locator: loc, Err: err}
	}
	return &ElementNotInteractableError{Locator: loc, Action: action, Err: err}
}
