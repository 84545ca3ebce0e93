package jwtmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"planner_backend/internal/feature/auth/domain/entity"
	"planner_backend/internal/shared/apperr"
)

// ContextIdentity is the gin context key holding the *entity.Identity of the caller.
const ContextIdentity = "identity"

// SessionValidator validates a raw bearer token.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*entity.Identity, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// It returns "" when the header is absent or uses another scheme.
func BearerToken(header string) string {
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// AuthRequired returns a Gin middleware function that validates session tokens
// and restricts access to authenticated users only.
func AuthRequired(v SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))

		identity, err := v.ValidateSession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":      false,
				"message": apperr.MessageOf(err, "Invalid token"),
			})
			return
		}

		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(c *gin.Context) (*entity.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*entity.Identity)
	return identity, ok
}
