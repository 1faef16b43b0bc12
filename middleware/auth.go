package middleware

import (
	"net/http"
	"time"

	"climatesolutions/logger"
	"climatesolutions/session"

	"github.com/gin-gonic/gin"
)

// SessionWindow applies the idle and absolute limits of p to every request
// before it reaches a handler. now is normally time.Now.
func SessionWindow(p session.Policy, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := session.Touch(c, p, now()); err != nil {
			logger.Warningf("unable to refresh session: %v", err)
		}
		c.Next()
	}
}

// EnsureLogin redirects anonymous visitors to /login. Pages behind it are
// never cached so the back button cannot reveal them after logout.
func EnsureLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")

		if !session.IsLogin(c) {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
