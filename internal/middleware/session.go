// Package middleware contains Gin middleware functions.
// Middleware in Gin is a handler that runs before (or after) your route handler.
// It calls c.Next() to proceed or c.Abort() to stop the chain.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleveque/quote-service/internal/session"
)

// sessionContextKey is where the resolved session is stored on the gin.Context.
const sessionContextKey = "session"

// Session returns middleware that attaches a session to every request.
// The cookie holds only the session ID; the state lives in store. A missing or
// unknown ID starts a fresh session and (re)sets the cookie.
func Session(store *session.Store, cookieName string, maxAge time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session.Session

		if id, err := c.Cookie(cookieName); err == nil && id != "" {
			sess, _ = store.Get(id)
		}
		if sess == nil {
			sess = store.Create()
			SetSessionCookie(c, cookieName, sess.ID, maxAge)
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// SetSessionCookie writes the session cookie. maxAge <= 0 deletes it.
func SetSessionCookie(c *gin.Context, name, value string, maxAge time.Duration) {
	seconds := int(maxAge.Seconds())
	if maxAge <= 0 {
		seconds = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, seconds, "/", "", false, true)
}

// CurrentSession returns the session attached by Session, or nil when the
// middleware did not run.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
