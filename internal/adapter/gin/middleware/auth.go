package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"account-service/pkg/security"
)

// Context keys populated by Authentication.
const (
	loginContextKey       = "login"
	authoritiesContextKey = "authorities"
)

// Authentication parses a Bearer token and, when valid, records the
// authenticated login in the request context. Anonymous and invalid
// requests pass through untouched: handlers decide whether a missing
// principal is an error, and GET /api/authenticate reports an empty
// login for anonymous callers.
func Authentication(tokens *security.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			c.Next()
			return
		}

		c.Set(loginContextKey, claims.Login)
		c.Set(authoritiesContextKey, claims.Authorities)
		c.Next()
	}
}

// GetCurrentLogin returns the authenticated login, if any.
func GetCurrentLogin(c *gin.Context) (string, bool) {
	login, exists := c.Get(loginContextKey)
	if !exists {
		return "", false
	}
	l, ok := login.(string)
	return l, ok && l != ""
}

// GetCurrentAuthorities returns the authorities of the authenticated user, if any.
func GetCurrentAuthorities(c *gin.Context) ([]string, bool) {
	auth, exists := c.Get(authoritiesContextKey)
	if !exists {
		return nil, false
	}
	a, ok := auth.([]string)
	return a, ok
}
