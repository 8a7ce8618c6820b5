package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wb-go/wbf/ginext"

	"eventdesk/internal/auth"
	"eventdesk/internal/model"
)

const (
	ctxUserID = "auth_user_id"
	ctxRole   = "auth_role"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate rejects requests without a valid bearer token and stores the
// verified identity in the request context. There is no ambient session state.
func Authenticate(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(401, gin.H{"message": "Authentication required."})
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"message": "Invalid or expired token."})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// MaybeAuthenticate sets the identity when a valid token is present but never
// rejects; routes with public and privileged views share it.
func MaybeAuthenticate(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tokens.Parse(token); err == nil {
				c.Set(ctxUserID, claims.UserID)
				c.Set(ctxRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. It must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != model.RoleAdmin {
			c.AbortWithStatusJSON(403, gin.H{"message": "You do not have permission to perform this action."})
			return
		}
		c.Next()
	}
}

func UserID(c *ginext.Context) (int64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func Role(c *ginext.Context) string {
	v, ok := c.Get(ctxRole)
	if !ok {
		return ""
	}
	role, _ := v.(string)
	return role
}

func IsAdmin(c *ginext.Context) bool {
	return Role(c) == model.RoleAdmin
}

// SetIdentity primes the context the way Authenticate does; used by handler
// tests that bypass the middleware chain.
func SetIdentity(c *ginext.Context, userID int64, role string) {
	c.Set(ctxUserID, userID)
	c.Set(ctxRole, role)
}
