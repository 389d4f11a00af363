// server/internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"lmis-mock-server/internal/auth"

	"github.com/gin-gonic/gin"
)

// IdentityKey is the gin context key holding the resolved auth.Identity.
const IdentityKey = "identity"

// TokenResolver turns a bearer token into an identity.
type TokenResolver interface {
	Resolve(token string) (auth.Identity, error)
}

// Identify resolves an optional bearer token. A missing or invalid token
// leaves the request anonymous; RequireIdentity decides whether that is
// acceptable.
func Identify(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if identity, err := resolver.Resolve(token); err == nil {
				c.Set(IdentityKey, identity)
			}
		}
		c.Next()
	}
}

// RequireIdentity rejects anonymous requests.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Full authentication is required to access this resource"})
			return
		}
		c.Next()
	}
}

// Authorize only lets through identities holding one of the roles.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Full authentication is required to access this resource"})
			return
		}

		for _, role := range allowedRoles {
			if role == identity.Role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
	}
}

// IdentityFrom returns the identity attached by Identify, if any.
func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(IdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
