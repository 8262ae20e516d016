package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// userIDKey is the gin context key the auth middleware populates.
const userIDKey = "userID"

// RequireUser extracts the authenticated user id. Authentication itself is
// an upstream concern; by the time requests reach this service the gateway
// has verified the session and set X-User-ID.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = c.Query("user_id")
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) string {
	return c.GetString(userIDKey)
}
