package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCookieName keys a visitor's cart. The cookie attributes are
// part of the contract: changing them changes who owns a returning
// visitor's cart.
const SessionCookieName = "cart_session"

// sessionCookieMaxAge is one year in seconds.
const sessionCookieMaxAge = 31536000

const sessionContextKey = "cart_session_id"

// SessionMiddleware resolves the anonymous cart-owner identity. An
// existing cookie is passed through unchanged; otherwise a new id is
// minted and set exactly once as an HttpOnly SameSite=Lax cookie.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(SessionCookieName); err == nil && id != "" {
			c.Set(sessionContextKey, id)
			c.Next()
			return
		}

		id := newSessionID()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, id, sessionCookieMaxAge, "/", "", false, true)
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

// SessionID returns the session id resolved by SessionMiddleware.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}

// newSessionID combines a clock component with random entropy so ids
// are unique and not guessable from one another.
func newSessionID() string {
	entropy := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("sess_%d_%s", time.Now().UnixMilli(), entropy)
}
