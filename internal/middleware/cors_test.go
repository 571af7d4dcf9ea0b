package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS("5005", []string{"http://tablet.lan:8080/"}))
	r.GET("/api/layout_data", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		origin  string
		status  int
		allowed string
	}{
		{"local port", http.MethodGet, "http://localhost:5005", http.StatusOK, "http://localhost:5005"},
		{"configured origin", http.MethodGet, "http://tablet.lan:8080", http.StatusOK, "http://tablet.lan:8080"},
		{"unknown origin", http.MethodGet, "http://evil.example", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://127.0.0.1:5005", http.StatusNoContent, "http://127.0.0.1:5005"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/layout_data", nil)
			req.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()
			corsRouter().ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.allowed, w.Header().Get("Access-Control-Allow-Origin"))
			if tc.allowed != "" {
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}
