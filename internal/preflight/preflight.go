// Package preflight checks a login page over plain HTTP before a
// browser session is spent on it: is the target reachable, and does
// its static HTML carry the elements the scenario is going to touch.
package preflight

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/authsmoke-io/authsmoke/internal/browser"
)

// Report describes what a probe found on the login page.
type Report struct {
	URL           string
	StatusCode    int
	UsernameField bool
	PasswordField bool
	SubmitButton  bool
}

// OK reports whether every element the login scenario needs resolved.
func (r Report) OK() bool {
	return r.UsernameField && r.PasswordField && r.SubmitButton
}

func (r Report) String() string {
	mark := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "MISSING"
	}
	return fmt.Sprintf("%s [%d] username=%s password=%s button=%s",
		r.URL, r.StatusCode,
		mark(r.UsernameField), mark(r.PasswordField), mark(r.SubmitButton))
}

// Probe fetches url and checks it for the scenario's locators. A
// non-2xx status or an unreachable host returns an error; a reachable
// page with missing elements returns a Report with OK() == false.
func Probe(ctx context.Context, url string) (Report, error) {
	report := Report{URL: url}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return report, err
	}
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return report, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	report.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return report, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return report, fmt.Errorf("parsing %s: %w", url, err)
	}

	// Same locator rendering the scenario uses, so the probe and the
	// browser look for identical things.
	report.UsernameField = doc.Find(browser.ID("username").Selector()).Length() > 0
	report.PasswordField = doc.Find(browser.ID("password").Selector()).Length() > 0
	report.SubmitButton = doc.Find(browser.CSS("button").Selector()).Length() > 0
	return report, nil
}
