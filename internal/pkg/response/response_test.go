package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factoryfloor/internal/domain"
)

func TestFromError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{&domain.PermissionError{Owner: "ana"}, http.StatusForbidden, "FORBIDDEN", "permission denied: this item is owned by 'ana'"},
		{domain.NotFoundf("Project not found in layout"), http.StatusNotFound, "NOT_FOUND", "Project not found in layout"},
		{domain.Conflictf("Project already exists in layout"), http.StatusConflict, "CONFLICT", "Project already exists in layout"},
		{domain.Validationf("Invalid priority"), http.StatusBadRequest, "VALIDATION_ERROR", "Invalid priority"},
		{fmt.Errorf("main store: %w", domain.ErrStoreUnavailable), http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "A backing store is unavailable"},
		{errors.New("disk on fire at /var/lib/x"), http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code    string `json:"code"`
					Message string `json:"message"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
		})
	}
}
