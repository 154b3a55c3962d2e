package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/application/container"
	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/cleanup"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
	base   string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := 0
	opts := container.Options{
		DBDriver:   "sqlite3",
		DBDSN:      "file:" + filepath.Join(t.TempDir(), "projects.db"),
		ProjectKey: "webbuilder_project",
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		Cleanup:    &cleanup.Config{CleanupInterval: time.Minute, WorkspaceIdleTTL: time.Hour},
		ElementIDs: func() string {
			n++
			return fmt.Sprintf("el-%d", n)
		},
	}
	c, err := container.NewContainer(context.Background(), opts, logging.NewDiscardLogger())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	api := &apiClient{t: t, router: SetupRoutes(c)}

	var open struct {
		WorkspaceID string `json:"workspaceId"`
		Token       string `json:"token"`
	}
	api.do(http.MethodPost, "/api/v1/workspaces", nil, http.StatusCreated, &open)
	api.token = open.Token
	api.base = "/api/v1/workspaces/" + open.WorkspaceID
	return api
}

func (a *apiClient) do(method, path string, body any, wantStatus int, out any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Code != wantStatus {
		a.t.Fatalf("%s %s: status %d, want %d, body %s", method, path, w.Code, wantStatus, w.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			a.t.Fatalf("decode %s: %v", w.Body.String(), err)
		}
	}
	return w
}

type stateResponse struct {
	State builder.State `json:"state"`
}

func TestWorkspaceRequiresToken(t *testing.T) {
	api := newAPI(t)
	api.token = ""
	api.do(http.MethodGet, api.base, nil, http.StatusUnauthorized, nil)
	api.token = "not-a-token"
	api.do(http.MethodGet, api.base, nil, http.StatusUnauthorized, nil)
}

func TestDragEndInsertAndTranslate(t *testing.T) {
	api := newAPI(t)

	var res struct {
		Outcome struct {
			Kind      string `json:"kind"`
			ElementID string `json:"elementId"`
		} `json:"outcome"`
		State builder.State `json:"state"`
	}
	api.do(http.MethodPost, api.base+"/drag-end", map[string]any{
		"sourceId":              "text",
		"targetId":              "canvas",
		"screenDelta":           map[string]float64{"dx": 0, "dy": 0},
		"pointerScreenPosition": map[string]float64{"x": 150, "y": 120},
		"canvasRect":            map[string]float64{"x": 100, "y": 100, "width": 800, "height": 600},
	}, http.StatusOK, &res)

	if res.Outcome.Kind != "inserted" || res.State.SelectedID() != "el-1" {
		t.Fatalf("unexpected insert %+v", res)
	}
	if el := res.State.Project[0]; el.PosX != "50px" || el.PosY != "20px" || el.Content != "Text Element" {
		t.Errorf("unexpected element %+v", el)
	}

	api.do(http.MethodPost, api.base+"/drag-end", map[string]any{
		"sourceId":    "el-1",
		"targetId":    nil,
		"screenDelta": map[string]float64{"dx": 10, "dy": -5},
	}, http.StatusOK, &res)
	if res.Outcome.Kind != "translated" || res.State.Project[0].PosX != "60px" || res.State.Project[0].PosY != "15px" {
		t.Errorf("unexpected translate %+v", res)
	}
	if res.State.Selection.PosX != "60px" {
		t.Error("selection not refreshed after translate")
	}
}

func TestPropertyUpdates(t *testing.T) {
	api := newAPI(t)
	api.do(http.MethodPost, api.base+"/elements", map[string]any{"type": "button", "x": 0, "y": 0}, http.StatusCreated, nil)

	var res stateResponse
	api.do(http.MethodPatch, api.base+"/elements/el-1", map[string]any{"width": 200, "content": "Buy", "fontSize": "18px"}, http.StatusOK, &res)
	el := res.State.Project[0]
	if el.Width != "200px" || el.Content != "Buy" || el.FontSize != "18px" {
		t.Errorf("unexpected element %+v", el)
	}
	if res.State.Selection == nil || res.State.Selection.Width != "200px" {
		t.Error("selection not refreshed after update")
	}

	api.do(http.MethodPatch, api.base+"/elements/el-1", map[string]any{"opacity": "1"}, http.StatusBadRequest, nil)
	api.do(http.MethodPatch, api.base+"/elements/el-1", map[string]any{"width": "wide"}, http.StatusBadRequest, nil)
}

func TestSaveClearLoadExport(t *testing.T) {
	api := newAPI(t)
	api.do(http.MethodPost, api.base+"/elements", map[string]any{"type": "text", "x": 10, "y": 20}, http.StatusCreated, nil)
	api.do(http.MethodPost, api.base+"/elements", map[string]any{"type": "image", "x": 30, "y": 40, "select": false}, http.StatusCreated, nil)

	var saved struct {
		Key          string `json:"key"`
		ElementCount int    `json:"elementCount"`
	}
	api.do(http.MethodPost, api.base+"/save", nil, http.StatusOK, &saved)
	if saved.Key != "webbuilder_project" || saved.ElementCount != 2 {
		t.Fatalf("unexpected save %+v", saved)
	}

	var res stateResponse
	api.do(http.MethodDelete, api.base+"/elements", nil, http.StatusOK, &res)
	if len(res.State.Project) != 0 || res.State.Selection != nil {
		t.Fatalf("clear left state %+v", res.State)
	}

	api.do(http.MethodPost, api.base+"/load", nil, http.StatusOK, &res)
	if ids := res.State.Project.IDs(); len(ids) != 2 || ids[0] != "el-1" || ids[1] != "el-2" {
		t.Fatalf("unexpected loaded ids %v", ids)
	}

	api.do(http.MethodPost, api.base+"/load", map[string]string{"key": "missing"}, http.StatusNotFound, nil)

	w := api.do(http.MethodGet, api.base+"/export?format=html&download=1", nil, http.StatusOK, nil)
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "exported-website.html") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if !strings.HasPrefix(w.Body.String(), "<!DOCTYPE html>") || !strings.Contains(w.Body.String(), "<img src=\"\"") {
		t.Errorf("unexpected export body:\n%s", w.Body.String())
	}

	var exported struct {
		FileName string `json:"fileName"`
		Source   string `json:"source"`
	}
	api.do(http.MethodGet, api.base+"/export?format=react", nil, http.StatusOK, &exported)
	if exported.FileName != "ExportedWebsite.jsx" || !strings.Contains(exported.Source, "export default ExportedWebsite;") {
		t.Errorf("unexpected component export %+v", exported)
	}
	api.do(http.MethodGet, api.base+"/export?format=vue", nil, http.StatusBadRequest, nil)

	var listed struct {
		Count int `json:"count"`
	}
	api.do(http.MethodGet, "/api/v1/projects", nil, http.StatusOK, &listed)
	if listed.Count != 1 {
		t.Errorf("expected one stored project, got %d", listed.Count)
	}
}

func TestPreviewRejectsSelection(t *testing.T) {
	api := newAPI(t)
	api.do(http.MethodPost, api.base+"/elements", map[string]any{"type": "text"}, http.StatusCreated, nil)

	var res stateResponse
	api.do(http.MethodPost, api.base+"/preview", map[string]bool{"enabled": true}, http.StatusOK, &res)
	if !res.State.Preview || res.State.Selection != nil {
		t.Fatalf("unexpected preview state %+v", res.State)
	}
	api.do(http.MethodPost, api.base+"/selection", map[string]string{"elementId": "el-1"}, http.StatusConflict, nil)
}

func TestReorderAndDelete(t *testing.T) {
	api := newAPI(t)
	for i := 0; i < 3; i++ {
		api.do(http.MethodPost, api.base+"/elements", map[string]any{"type": "text"}, http.StatusCreated, nil)
	}

	var res stateResponse
	api.do(http.MethodPost, api.base+"/reorder", map[string]string{"sourceId": "el-3", "targetId": "el-1"}, http.StatusOK, &res)
	if ids := res.State.Project.IDs(); strings.Join(ids, ",") != "el-3,el-1,el-2" {
		t.Fatalf("unexpected order %v", ids)
	}

	api.do(http.MethodDelete, api.base+"/elements/selected", nil, http.StatusOK, &res)
	if ids := res.State.Project.IDs(); strings.Join(ids, ",") != "el-1,el-2" || res.State.Selection != nil {
		t.Errorf("unexpected state after delete-selected %+v", res.State)
	}
}

func TestHealthAndPerformance(t *testing.T) {
	api := newAPI(t)
	api.do(http.MethodGet, "/api/v1/health", nil, http.StatusOK, nil)

	var perf struct {
		Operations []struct {
			Operation string `json:"operation"`
		} `json:"operations"`
	}
	api.do(http.MethodPost, api.base+"/elements", map[string]any{"type": "text"}, http.StatusCreated, nil)
	api.do(http.MethodGet, "/api/v1/system/performance", nil, http.StatusOK, &perf)
	if len(perf.Operations) == 0 {
		t.Error("no operations tracked")
	}
}
