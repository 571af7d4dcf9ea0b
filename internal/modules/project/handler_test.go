package project

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factoryfloor/internal/middleware"
	"factoryfloor/internal/pkg/jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, fixture, *jwt.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)
	jwtService := jwt.New("test-secret", time.Hour)

	r := gin.New()
	api := r.Group("/api", middleware.SessionAuth(jwtService))
	authed := api.Group("", middleware.RequireLogin())
	admin := api.Group("", middleware.AdminOnly())
	NewHandler(f.svc).RegisterRoutes(api, authed, admin)
	return r, f, jwtService
}

func performRequest(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHandler_TaskRoutes(t *testing.T) {
	r, _, jwtService := setupRouter(t)
	adminTok, _ := jwtService.GenerateToken("ana", "admin")
	viewerTok, _ := jwtService.GenerateToken("vid", "viewer")

	w := performRequest(r, http.MethodPost, "/api/project/P1/complete/control", adminTok, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "2024-05-01T10:00:00Z", data.Timestamp)

	w = performRequest(r, http.MethodPost, "/api/project/P1/complete/painting", adminTok, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid task type", decode(t, w).Error.Message)

	w = performRequest(r, http.MethodPost, "/api/project/P1/electrify", viewerTok, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(r, http.MethodPost, "/api/project/P1/electrify", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, http.MethodPost, "/api/project/P1/priority", adminTok, `{"priority":"Urgent"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodPost, "/api/project/P1/pause", adminTok, `{"reason":"Tea"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(r, http.MethodPost, "/api/project/P1/notes", adminTok, `{"note_type":"notes","content":"hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(r, http.MethodGet, "/api/project/P1/extra_details", viewerTok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"notes":{"notes":"hi","electrification_notes":"","control_notes":""}}`, string(decode(t, w).Data))

	w = performRequest(r, http.MethodPost, "/api/dni/W1/status", adminTok, `{"completed":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing project_task_no", decode(t, w).Error.Message)
}

func TestHandler_PublicAndLoginReads(t *testing.T) {
	r, _, jwtService := setupRouter(t)
	viewerTok, _ := jwtService.GenerateToken("vid", "viewer")

	w := performRequest(r, http.MethodGet, "/api/project/P1/detailed_missing_parts", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(decode(t, w).Data))

	w = performRequest(r, http.MethodGet, "/api/project/P1/missing_parts", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(r, http.MethodGet, "/api/project_inventory_status/P1", viewerTok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{}`, string(decode(t, w).Data))
}

func TestHandler_UploadPhoto(t *testing.T) {
	r, f, jwtService := setupRouter(t)
	adminTok, _ := jwtService.GenerateToken("ana", "admin")
	f.place(t, ana, "P1")

	upload := func(field string, content []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile(field, "door.png")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/project/P1/upload", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+adminTok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := upload("photo", []byte("png bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var data struct {
		Filename string `json:"filename"`
		URL      string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "/uploads/P1/"+data.Filename, data.URL)

	w = upload("file", []byte("png bytes"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload("photo", bytes.Repeat([]byte("x"), 3<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = performRequest(r, http.MethodDelete, "/api/project/P1/photo/"+data.Filename, adminTok, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
