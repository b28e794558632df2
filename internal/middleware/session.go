package middleware

import (
	"net/http"
	"time"

	"hrms-lite/internal/session"
	"hrms-lite/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Session resolves the browser session from its cookie, starting a new one
// when missing or expired. The cookie is re-issued on every request so it
// expires with the session's idle timeout, not its creation time.
func Session(registry *session.Registry, ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(session.CookieName)
		sess, _ := registry.Resolve(id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, sess.ID, int(ttl.Seconds()), "/", "", secure, true)

		c.Set(sessionKey, sess)
		c.Set("session_id", sess.ID)
		c.Request = c.Request.WithContext(contextutil.WithSessionID(c.Request.Context(), sess.ID))
		c.Next()
	}
}

// SessionFrom returns the request's session. Outside the Session middleware a
// detached session is stored on the context so the request still works.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	sess := &session.Session{ID: "detached"}
	c.Set(sessionKey, sess)
	return sess
}
