// Package scenario contains the scripted UI flows the harness can run.
package scenario

import (
	"github.com/authsmoke-io/authsmoke/internal/browser"
	"github.com/authsmoke-io/authsmoke/internal/config"
	"github.com/authsmoke-io/authsmoke/internal/pages"
)

// Login runs the credential-submission flow: open the login page, fill
// username and password, click the submit button. The first failure
// aborts the flow and propagates unmodified; nothing is retried.
// Assertions on the resulting state are the caller's business.
func Login(sess *browser.Session, cfg *config.Config) (*pages.LoginPage, error) {
	page := pages.NewLoginPage(sess, cfg.Target.BaseURL, cfg.Target.LoginPath)
	if err := page.Open(); err != nil {
		return page, err
	}
	if err := page.With(cfg.Target.Username, cfg.Target.Password); err != nil {
		return page, err
	}
	return page, nil
}
