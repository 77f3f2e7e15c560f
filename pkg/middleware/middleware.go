// Package middleware provides the gin middleware chain: request
// identity, plan tier, logging, metrics, tracing, rate limiting,
// circuit breaking, response caching, and storage injection.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type userKey struct{}

// UserMiddleware resolves the requesting user from the proxy-injected
// headers and stores it in both the gin context and the request
// context. Requests without an identity pass through; handlers that
// need one use RequireUser.
func UserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := strings.TrimSpace(c.GetHeader("X-Auth-Request-User"))
		if user == "" {
			user = strings.TrimSpace(c.GetHeader("X-Forwarded-User"))
		}

		if user == "" {
			user = strings.TrimSpace(c.Query("user"))
		}

		if user != "" {
			c.Set("user_id", user)
			ctx := context.WithValue(c.Request.Context(), userKey{}, user)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// GetUserID returns the requesting user's ID, or "" when anonymous.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(string); ok2 {
			return id
		}
	}

	if v := c.Request.Context().Value(userKey{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}

	return ""
}

// UserIDFromContext returns the user ID carried by a plain context.
func UserIDFromContext(ctx context.Context) string {
	if v := ctx.Value(userKey{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}

	return ""
}

// RequireUser aborts with 401 when no user identity was resolved.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Next()
	}
}
