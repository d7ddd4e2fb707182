package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cafehub/internal/app"
	"cafehub/internal/transport/http/flash"
)

const (
	SessionCookie      = "cafehub_session"
	ContextIdentityKey = "identity"
)

// Session resolves the session cookie into an identity on every request.
// Anonymous requests pass through untouched.
func Session(auth *app.AuthService, secureCookie bool, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		switch {
		case err == nil:
			id := app.Identity{UserID: user.ID, Username: user.Username}
			c.Set(ContextIdentityKey, id)
			c.Request = c.Request.WithContext(app.ContextWithIdentity(c.Request.Context(), id))
		case errors.Is(err, app.ErrUnauthenticated):
			ClearSessionCookie(c, secureCookie)
		default:
			log.Warn("resolve session failed", zap.Error(err))
		}
		c.Next()
	}
}

// RequireLogin sends anonymous callers to the login page and remembers
// where they were going.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); ok {
			c.Next()
			return
		}
		flash.Add(c, flash.Error, "Please log in to access this page.")
		target := "/login?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

func CurrentIdentity(c *gin.Context) (app.Identity, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return app.Identity{}, false
	}
	id, ok := v.(app.Identity)
	return id, ok && id.UserID != 0
}

func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}

// SafeNext returns next when it is a path on this site, otherwise "/".
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
