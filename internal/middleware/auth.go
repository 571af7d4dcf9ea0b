package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/pkg/jwt"
	"factoryfloor/internal/pkg/response"
)

// SessionCookie is the cookie holding the signed session token.
const SessionCookie = "session"

const (
	ctxUsername = "username"
	ctxRole     = "role"
)

// SessionAuth resolves the caller from the session cookie or a bearer
// token. It never rejects a request; RequireLogin does.
func SessionAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(SessionCookie)
		}
		if token != "" {
			if claims, err := jwtService.ValidateToken(token); err == nil {
				c.Set(ctxUsername, claims.Username)
				c.Set(ctxRole, claims.Role)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireLogin rejects anonymous callers: API requests get a 401 JSON body,
// pages are redirected to the login screen.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUsername) == "" {
			denyAnonymous(c)
			return
		}
		c.Next()
	}
}

func denyAnonymous(c *gin.Context) {
	if isAPI(c) {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		c.Abort()
		return
	}
	c.Redirect(http.StatusFound, "/")
	c.Abort()
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// CurrentActor returns the authenticated caller; the zero Actor when none.
func CurrentActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		Username: c.GetString(ctxUsername),
		Role:     domain.UserRole(c.GetString(ctxRole)),
	}
}
