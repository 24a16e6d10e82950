// Package fixture serves a small login site with the same markup and
// flow as the public demo target, so the end-to-end suite can run
// without leaving the machine: GET /login renders the form, POST
// /authenticate verifies credentials, /secure sits behind a session
// cookie.
package fixture

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RandomSecret returns a throwaway signing secret for runs that did
// not configure one. Sessions do not survive a restart, which is fine
// for a test fixture.
func RandomSecret() string {
	return uuid.NewString()
}

const sessionCookie = "authsmoke_session"
const flashCookie = "authsmoke_flash"

const (
	FlashLoginOK  = "You logged into a secure area!"
	FlashBadCreds = "Your username is invalid!"
	FlashLogout   = "You logged out of the secure area!"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
{{if .Flash}}<div id="flash" class="flash {{.FlashClass}}">{{.Flash}}</div>{{end}}
{{if .ShowForm}}
<h2>Login Page</h2>
<form id="login" method="post" action="/authenticate">
  <label for="username">Username</label>
  <input type="text" name="username" id="username">
  <label for="password">Password</label>
  <input type="password" name="password" id="password">
  <button type="submit">Login</button>
</form>
{{else}}
<h2>Secure Area</h2>
<a href="/logout">Logout</a>
{{end}}
</body>
</html>`))

// Server is the fixture site. Build it with New and mount Engine on
// any listener.
type Server struct {
	users  *UserStore
	tokens *TokenManager
	engine *gin.Engine
}

// New wires the fixture routes. The caller owns the user store.
func New(users *UserStore, secret string) *Server {
	s := &Server{
		users:  users,
		tokens: NewTokenManager(secret, time.Hour),
	}

	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())
	engine.SetHTMLTemplate(pageTemplate)

	engine.GET("/login", s.handleLoginPage)
	engine.POST("/authenticate", s.handleAuthenticate)
	engine.GET("/secure", s.handleSecure)
	engine.GET("/logout", s.handleLogout)
	engine.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	s.engine = engine
	return s
}

// Handler exposes the fixture as an http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves the fixture on addr until the listener fails.
func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

func (s *Server) handleLoginPage(c *gin.Context) {
	flash, class := takeFlash(c)
	c.HTML(http.StatusOK, "page", gin.H{
		"Title":      "Login Page",
		"ShowForm":   true,
		"Flash":      flash,
		"FlashClass": class,
	})
}

func (s *Server) handleAuthenticate(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !s.users.Verify(username, password) {
		setFlash(c, FlashBadCreds, "error")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	token, err := s.tokens.Generate(username)
	if err != nil {
		c.String(http.StatusInternalServerError, "could not create session")
		return
	}
	c.SetCookie(sessionCookie, token, int(time.Hour.Seconds()), "/", "", false, true)
	setFlash(c, FlashLoginOK, "success")
	c.Redirect(http.StatusSeeOther, "/secure")
}

func (s *Server) handleSecure(c *gin.Context) {
	token, err := c.Cookie(sessionCookie)
	if err != nil {
		setFlash(c, FlashBadCreds, "error")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if _, err := s.tokens.Validate(token); err != nil {
		setFlash(c, FlashBadCreds, "error")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	flash, class := takeFlash(c)
	c.HTML(http.StatusOK, "page", gin.H{
		"Title":      "Secure Area",
		"ShowForm":   false,
		"Flash":      flash,
		"FlashClass": class,
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	setFlash(c, FlashLogout, "success")
	c.Redirect(http.StatusSeeOther, "/login")
}

// Flash messages ride a short-lived cookie across the redirect, the
// way the demo site's rack session flash behaves.
func setFlash(c *gin.Context, message, class string) {
	c.SetCookie(flashCookie, class+"|"+message, 60, "/", "", false, false)
}

func takeFlash(c *gin.Context) (message, class string) {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return "", ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, false)
	for i := 0; i < len(raw); i++ {
		if raw[i] == '|' {
			return raw[i+1:], raw[:i]
		}
	}
	return raw, "success"
}
