package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"factoryfloor/internal/config"
	"factoryfloor/internal/domain"
	"factoryfloor/internal/middleware"
	"factoryfloor/internal/modules/auth"
	"factoryfloor/internal/repository"
	"factoryfloor/internal/testutil"
)

type testApp struct {
	*App
	root string
}

func newTestApp(t *testing.T) testApp {
	t.Helper()
	root := t.TempDir()
	stores := testutil.NewStores(t)
	cfg := &config.Config{
		AppEnv:            "test",
		AppRoot:           root,
		LayoutPath:        filepath.Join(root, "layout_data.json"),
		UploadsDir:        filepath.Join(root, "uploads"),
		WorkCenter:        "303",
		SessionSecret:     "test-secret",
		SessionTTL:        time.Hour,
		LayoutLockTimeout: time.Second,
		MaxUploadBytes:    1 << 20,
	}

	users := repository.NewUserRepository(stores.Montaza)
	for name, role := range map[string]domain.UserRole{"ana": domain.RoleAdmin, "bor": domain.RoleAdmin, "vid": domain.RoleViewer} {
		hash, err := auth.HashPassword(name + "-pw")
		require.NoError(t, err)
		require.NoError(t, users.Create(context.Background(), &domain.User{Username: name, PasswordHash: hash, Role: role}))
	}
	testutil.SeedWorkOrders(t, stores.Main, testutil.WO("P1", "W1", "303"), testutil.WO("P2", "W2", "303"))

	require.NoError(t, os.WriteFile(filepath.Join(root, "mobile_app.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "parts.html"), []byte("<html>parts</html>"), 0o644))

	return testApp{App: New(cfg, stores, zap.NewNop()), root: root}
}

func (a testApp) login(t *testing.T, user string) *http.Cookie {
	t.Helper()
	w := a.do(http.MethodPost, "/api/login", nil, `{"username":"`+user+`","password":"`+user+`-pw"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func (a testApp) do(method, path string, cookie *http.Cookie, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func data(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func TestApp_FloorWorkflow(t *testing.T) {
	a := newTestApp(t)
	ana := a.login(t, "ana")
	bor := a.login(t, "bor")
	vid := a.login(t, "vid")

	var available []string
	data(t, a.do(http.MethodGet, "/api/available_projects", vid, ""), &available)
	assert.Equal(t, []string{"P1", "P2"}, available)

	w := a.do(http.MethodPost, "/api/add_project_to_layout", ana, `{"project_name":"P1","x":10,"y":20}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/add_project_to_layout", vid, `{"project_name":"P2","x":0,"y":0}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/api/move_project_to_layout", bor, `{"project_name":"P1","x":1,"y":1}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/api/dni/W1/status", ana, `{"project_task_no":"P1","completed":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/project/P1/complete/electrification", ana, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var layoutView struct {
		Items []map[string]any `json:"items"`
	}
	data(t, a.do(http.MethodGet, "/api/layout_data", vid, ""), &layoutView)
	require.Len(t, layoutView.Items, 1)
	assert.Equal(t, map[string]any{"total": 1.0, "completed": 1.0, "percentage": 100.0}, layoutView.Items[0]["status"])
	assert.NotEmpty(t, layoutView.Items[0]["electrification_completed_at"])

	var rows []map[string]any
	data(t, a.do(http.MethodGet, "/api/planning_data", nil, ""), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "P1", rows[0]["name"])
	assert.Equal(t, "ana", rows[0]["owner"])
	assert.Equal(t, 100.0, rows[0]["status_percentage"])

	data(t, a.do(http.MethodGet, "/api/available_projects", vid, ""), &available)
	assert.Equal(t, []string{"P2"}, available)

	w = a.do(http.MethodDelete, "/api/remove_project_from_layout/P1", ana, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApp_PagesAndAccess(t *testing.T) {
	a := newTestApp(t)
	vid := a.login(t, "vid")

	w := a.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "app")

	w = a.do(http.MethodGet, "/parts/P1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, "/parts/..secret", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/admin", nil, "")
	assert.Equal(t, http.StatusFound, w.Code)
	w = a.do(http.MethodGet, "/admin", vid, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/layout_data", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/uploads/P1/x.jpg", vid, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/api/get_image", vid, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = a.do(http.MethodGet, "/api/get_image?path=../../etc/passwd", vid, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var me map[string]string
	data(t, a.do(http.MethodGet, "/api/me", vid, ""), &me)
	assert.Equal(t, map[string]string{"username": "vid", "role": "viewer"}, me)
}
