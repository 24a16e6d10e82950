// Package pages holds page objects: thin wrappers that give UI flows a
// vocabulary, keeping selectors out of test bodies.
package pages

import (
	"fmt"
	"strings"

	"github.com/authsmoke-io/authsmoke/internal/browser"
)

// Element locators for the login page. The page under test renders a
// username field, a password field, a single submit button and a flash
// banner carrying the outcome.
var (
	UsernameField = browser.ID("username")
	PasswordField = browser.ID("password")
	SubmitButton  = browser.CSS("button")
	SuccessFlash  = browser.CSS(".flash.success")
	ErrorFlash    = browser.CSS(".flash.error")
)

// LoginPage drives the login form of a target site.
type LoginPage struct {
	session *browser.Session
	baseURL string
	path    string
}

// NewLoginPage binds a page object to a live session.
func NewLoginPage(session *browser.Session, baseURL, path string) *LoginPage {
	if path == "" {
		path = "/login"
	}
	return &LoginPage{session: session, baseURL: baseURL, path: path}
}

// URL returns the login page address.
func (p *LoginPage) URL() string {
	return strings.TrimSuffix(p.baseURL, "/") + p.path
}

// Open navigates to the login page.
func (p *LoginPage) Open() error {
	return p.session.NavigateTo(p.URL())
}

// With fills the credentials and submits the form. It does not judge
// the outcome; callers assert on the resulting state.
func (p *LoginPage) With(username, password string) error {
	if err := p.session.Fill(UsernameField, username); err != nil {
		return fmt.Errorf("username field: %w", err)
	}
	if err := p.session.Fill(PasswordField, password); err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	if err := p.session.Click(SubmitButton); err != nil {
		return fmt.Errorf("submit button: %w", err)
	}
	if err := p.session.WaitSettled(); err != nil {
		return fmt.Errorf("waiting for login response: %w", err)
	}
	return nil
}

// SuccessMessagePresent reports whether the success flash is shown.
func (p *LoginPage) SuccessMessagePresent() bool {
	_, ok := p.session.Text(SuccessFlash)
	return ok
}

// ErrorMessagePresent reports whether the failure flash is shown.
func (p *LoginPage) ErrorMessagePresent() bool {
	_, ok := p.session.Text(ErrorFlash)
	return ok
}

// FlashText returns the visible flash message, if any.
func (p *LoginPage) FlashText() string {
	if text, ok := p.session.Text(browser.ID("flash")); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

// CurrentURL reports where the browser ended up after submitting.
func (p *LoginPage) CurrentURL() string {
	return p.session.URL()
}
