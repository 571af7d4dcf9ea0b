package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	corsAllowHeaders = "Content-Type, Authorization, Accept, Origin, X-Requested-With"
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
)

// CORS lets the floor pages served from another local port (a dev server
// or a tablet pointing at the LAN address) call the API with the session
// cookie. Only listed origins are reflected.
func CORS(port string, extra []string) gin.HandlerFunc {
	allowed := map[string]struct{}{}
	for _, host := range []string{"localhost", "127.0.0.1"} {
		allowed["http://"+host+":"+port] = struct{}{}
	}
	for _, o := range extra {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		origin := c.GetHeader("Origin")
		_, ok := allowed[origin]
		if ok {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			if ok {
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Max-Age", "600")
			}
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
