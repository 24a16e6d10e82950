package fixture

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSite(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users, err := NewUserStore("tomsmith", "SuperSecretPassword!")
	require.NoError(t, err)

	srv := httptest.NewServer(New(users, "test-secret").Handler())
	t.Cleanup(func() {
		srv.Close()
		users.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(body)
}

func TestLoginPageRendersForm(t *testing.T) {
	srv, client := newTestSite(t)

	resp, body := get(t, client, srv.URL+"/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="username"`)
	assert.Contains(t, body, `id="password"`)
	assert.Contains(t, body, "<button")
	assert.Contains(t, body, `action="/authenticate"`)
}

func TestAuthenticateValidCredentials(t *testing.T) {
	srv, client := newTestSite(t)

	resp, err := client.PostForm(srv.URL+"/authenticate", url.Values{
		"username": {"tomsmith"},
		"password": {"SuperSecretPassword!"},
	})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	// The client follows the redirect chain to the secure area.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/secure"))
	assert.Contains(t, string(body), FlashLoginOK)
	assert.Contains(t, string(body), "flash success")
}

func TestAuthenticateBadCredentials(t *testing.T) {
	srv, client := newTestSite(t)

	resp, err := client.PostForm(srv.URL+"/authenticate", url.Values{
		"username": {"tomsmith"},
		"password": {"bad password"},
	})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/login"), "should land back on the login page")
	assert.Contains(t, string(body), FlashBadCreds)
	assert.Contains(t, string(body), "flash error")
	assert.NotContains(t, string(body), FlashLoginOK)
}

func TestSecureAreaRequiresSession(t *testing.T) {
	srv, client := newTestSite(t)

	resp, body := get(t, client, srv.URL+"/secure")
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/login"), "anonymous visit should bounce to login")
	assert.Contains(t, body, `id="username"`)
}

func TestLogoutClearsSession(t *testing.T) {
	srv, client := newTestSite(t)

	resp, err := client.PostForm(srv.URL+"/authenticate", url.Values{
		"username": {"tomsmith"},
		"password": {"SuperSecretPassword!"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.True(t, strings.HasSuffix(resp.Request.URL.Path, "/secure"))

	resp, body := get(t, client, srv.URL+"/logout")
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/login"))
	assert.Contains(t, body, FlashLogout)

	resp, _ = get(t, client, srv.URL+"/secure")
	assert.True(t, strings.HasSuffix(resp.Request.URL.Path, "/login"), "secure area should reject a cleared session")
}

func TestHealthz(t *testing.T) {
	srv, client := newTestSite(t)

	resp, body := get(t, client, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body)
}
