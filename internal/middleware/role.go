package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if c.GetString(ctxUsername) == "" || role == "" {
			denyAnonymous(c)
			return
		}

		if domain.UserRole(role) != requiredRole {
			if isAPI(c) {
				response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			} else {
				c.String(http.StatusForbidden, "Forbidden")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
