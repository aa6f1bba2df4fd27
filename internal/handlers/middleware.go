package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"license-investigation/internal/access"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxUserID = "user_id"
	ctxRole   = "user_role"
)

// Identity extracts the authenticated user from request headers set by the
// upstream authentication proxy. Requests without both headers are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		roleStr := c.GetHeader(headerUserRole)
		if userID == "" || roleStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing user identity"})
			return
		}

		role, ok := access.ParseRole(roleStr)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown role"})
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxRole, role)
		c.Next()
	}
}

// RequirePermission rejects requests whose role lacks the permission.
func RequirePermission(permission access.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := currentRole(c)
		if !access.HasPermission(role, permission) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func currentRole(c *gin.Context) access.Role {
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(access.Role); ok {
			return role
		}
	}
	return ""
}
