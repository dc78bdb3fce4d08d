package middleware

import (
	"net/http"

	"menu-backend/utils"

	"github.com/gin-gonic/gin"
)

const SessionHeader = "X-Session-Token"

// SessionMiddleware resolves the guest session from the X-Session-Token header
// (or a Bearer token) and stores it in the context under "session".
func SessionMiddleware(store *utils.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			var problem string
			token, problem = bearerToken(c)
			if problem != "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Session token required"})
				c.Abort()
				return
			}
		}

		claims, err := utils.ValidateSessionToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		sess := store.Touch(claims.SessionID, claims.RestaurantID, claims.BranchID)
		c.Set("session", sess)
		c.Set("session_id", sess.ID.String())
		c.Next()
	}
}

// CurrentSession returns the session set by SessionMiddleware.
func CurrentSession(c *gin.Context) (*utils.Session, bool) {
	v, exists := c.Get("session")
	if !exists {
		return nil, false
	}
	sess, ok := v.(*utils.Session)
	return sess, ok
}

// SessionKey keys rate limits by session, falling back to the client IP.
func SessionKey(c *gin.Context) string {
	if id := c.GetString("session_id"); id != "" {
		return "session:" + id
	}
	return c.ClientIP()
}
