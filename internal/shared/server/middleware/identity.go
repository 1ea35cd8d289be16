package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "userId"
	userIDHeader = "X-User-Id"
)

// Identity records the caller-supplied user ID. There is no authentication;
// the header only scopes application listings and rate limits.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(userIDHeader)); id != "" {
			c.Set(userIDKey, id)
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by Identity.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
