package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "console_session"
	ClaimsKey  = "claims"
	LoginPath  = "/login"
)

// Gate reports the state of the operator session.
type Gate interface {
	Ready() bool
	Authenticated() bool
}

// RequireSession guards the dashboard. Nothing renders while the session is
// still being restored; an anonymous operator is sent to the login page.
func RequireSession(gate Gate, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !gate.Ready() {
			c.Header("Retry-After", "1")
			c.String(http.StatusServiceUnavailable, "Loading...")
			c.Abort()
			return
		}

		tokenString, err := c.Cookie(CookieName)
		if err != nil || tokenString == "" || !gate.Authenticated() {
			deny(c)
			return
		}

		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			ClearCookie(c)
			deny(c)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func deny(c *gin.Context) {
	if wantsJSON(c.Request) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.Redirect(http.StatusFound, LoginPath)
	c.Abort()
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// SetCookie stores a console session token in the operator's browser.
func SetCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(ttl.Seconds()), "/", "", false, true)
}

func ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}
