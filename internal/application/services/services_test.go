package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AtRiskMedia/pagebuilder/internal/domain/entities/builder"
	"github.com/AtRiskMedia/pagebuilder/internal/domain/repositories"
	domain "github.com/AtRiskMedia/pagebuilder/internal/domain/services"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/caching/workspaces"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagebuilder/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagebuilder/internal/presentation/templates"
)

type memoryStore struct {
	mu       sync.Mutex
	payloads map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{payloads: make(map[string][]byte)}
}

func (m *memoryStore) Save(_ context.Context, key string, payload []byte, _ int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[key] = append([]byte(nil), payload...)
	return nil
}

func (m *memoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payloads[key]
	return p, ok, nil
}

func (m *memoryStore) List(context.Context) ([]repositories.SavedProject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []repositories.SavedProject
	for k := range m.payloads {
		out = append(out, repositories.SavedProject{Key: k})
	}
	return out, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payloads, key)
	return nil
}

type fixture struct {
	ws       *WorkspaceService
	projects *ProjectService
	export   *ExportService
	store    *memoryStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := logging.NewDiscardLogger()
	perf := performance.NewTracker(nil)
	registry := workspaces.NewStore(0)
	store := newMemoryStore()

	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("el-%d", n)
	}

	projects := NewProjectService(store, registry, "webbuilder_project", logger, perf)
	return fixture{
		ws:       NewWorkspaceService(registry, ids, "test-secret", time.Hour, logger, perf),
		projects: projects,
		export:   NewExportService(registry, projects, logger, perf),
		store:    store,
	}
}

var canvas = domain.Rect{X: 100, Y: 50, Width: 800, Height: 600}

func TestOpenIssuesUsableToken(t *testing.T) {
	f := newFixture(t)
	sess, err := f.ws.Open()
	if err != nil {
		t.Fatal(err)
	}
	if err := f.ws.Authorize(sess.WorkspaceID, sess.Token); err != nil {
		t.Errorf("fresh token rejected: %v", err)
	}
	if err := f.ws.Authorize("ws-other", sess.Token); err == nil {
		t.Error("token accepted for another workspace")
	}
}

func TestDragEndInsertSelects(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.ws.Open()

	st, outcome, err := f.ws.DragEnd(sess.WorkspaceID, domain.DragEndEvent{
		SourceID: "button", TargetID: domain.CanvasID,
		Pointer: domain.Point{X: 300, Y: 250},
	}, canvas)
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Kind != domain.DropInserted || outcome.ElementID != "el-1" {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if st.SelectedID() != "el-1" || st.Project[0].PosX != "200px" || st.Project[0].PosY != "200px" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestPreviewBlocksEdits(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.ws.Open()
	id := sess.WorkspaceID

	f.ws.Insert(id, builder.TypeText, 10, 10, true)
	st, err := f.ws.SetPreview(id, true)
	if err != nil || st.Selection != nil || !st.Preview {
		t.Fatalf("SetPreview: %+v %v", st, err)
	}

	if _, err := f.ws.Select(id, "el-1"); !errors.Is(err, ErrPreviewMode) {
		t.Errorf("select in preview: %v", err)
	}
	if _, _, err := f.ws.Insert(id, builder.TypeText, 0, 0, false); !errors.Is(err, ErrPreviewMode) {
		t.Errorf("insert in preview: %v", err)
	}
	if _, err := f.ws.UpdateProperties(id, "el-1", map[domain.Field]string{domain.FieldContent: "x"}); !errors.Is(err, ErrPreviewMode) {
		t.Errorf("update in preview: %v", err)
	}
	_, outcome, err := f.ws.DragEnd(id, domain.DragEndEvent{SourceID: "el-1", Delta: domain.Delta{DX: 5}}, canvas)
	if err != nil || outcome.Kind != domain.DropDiscarded {
		t.Errorf("drag in preview: %+v %v", outcome, err)
	}
	st, _ = f.ws.State(id)
	if st.Project[0].PosX != "10px" {
		t.Errorf("preview drag moved the element: %s", st.Project[0].PosX)
	}
}

func TestSaveClearLoad(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.ws.Open()
	id := sess.WorkspaceID

	f.ws.Insert(id, builder.TypeText, 10, 20, true)
	f.ws.Insert(id, builder.TypeImage, 30, 40, false)
	before, _ := f.ws.State(id)

	key, count, err := f.projects.Save(ctx, id, "")
	if err != nil || key != "webbuilder_project" || count != 2 {
		t.Fatalf("Save: %q %d %v", key, count, err)
	}

	f.ws.Clear(id)
	st, err := f.projects.Load(ctx, id, "")
	if err != nil {
		t.Fatal(err)
	}
	if st.Selection != nil {
		t.Error("load kept a selection")
	}
	if len(st.Project) != 2 || st.Project[0] != before.Project[0] || st.Project[1] != before.Project[1] {
		t.Errorf("round trip changed the project: %+v", st.Project)
	}
}

func TestLoadFailuresLeaveStateUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sess, _ := f.ws.Open()
	id := sess.WorkspaceID
	f.ws.Insert(id, builder.TypeButton, 0, 0, true)

	if _, err := f.projects.Load(ctx, id, "missing"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got %v", err)
	}

	f.store.Save(ctx, "broken", []byte(`{"not":"an array"}`), 0)
	if _, err := f.projects.Load(ctx, id, "broken"); !errors.Is(err, builder.ErrMalformedProject) {
		t.Errorf("expected ErrMalformedProject, got %v", err)
	}

	st, _ := f.ws.State(id)
	if len(st.Project) != 1 || st.SelectedID() != "el-1" {
		t.Errorf("failed load changed the workspace: %+v", st)
	}
}

func TestExportClearsSelection(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.ws.Open()
	id := sess.WorkspaceID
	f.ws.Insert(id, builder.TypeText, 0, 0, true)
	f.ws.UpdateProperties(id, "el-1", map[domain.Field]string{domain.FieldContent: ""})

	res, err := f.export.ExportWorkspace(id, templates.FormatMarkup)
	if err != nil {
		t.Fatal(err)
	}
	if res.FileName != "exported-website.html" || !strings.Contains(res.Source, ">Text</div>") {
		t.Errorf("unexpected export %+v", res)
	}
	st, _ := f.ws.State(id)
	if st.Selection != nil {
		t.Error("export view kept the selection")
	}
}

func TestExportStoredProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.Save(ctx, "site", []byte(`[{"id":"a","type":"button","content":"Go"}]`), 1)

	res, err := f.export.ExportProject(ctx, "site", templates.FormatComponent)
	if err != nil {
		t.Fatal(err)
	}
	if res.FileName != "ExportedWebsite.jsx" || !strings.Contains(res.Source, ">Go</button>") {
		t.Errorf("unexpected export %+v", res)
	}
}

func TestDeleteSelected(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.ws.Open()
	id := sess.WorkspaceID
	f.ws.Insert(id, builder.TypeText, 0, 0, false)
	f.ws.Insert(id, builder.TypeText, 0, 0, true)

	st, removed, err := f.ws.DeleteSelected(id)
	if err != nil || !removed {
		t.Fatalf("DeleteSelected: %v %v", removed, err)
	}
	if len(st.Project) != 1 || st.Project[0].ID != "el-1" || st.Selection != nil {
		t.Errorf("unexpected state %+v", st)
	}
	if _, removed, _ := f.ws.DeleteSelected(id); removed {
		t.Error("delete with no selection removed something")
	}
}

func TestClosedWorkspace(t *testing.T) {
	f := newFixture(t)
	sess, _ := f.ws.Open()
	if err := f.ws.Close(sess.WorkspaceID); err != nil {
		t.Fatal(err)
	}
	if _, err := f.ws.Clear(sess.WorkspaceID); !errors.Is(err, workspaces.ErrWorkspaceNotFound) {
		t.Errorf("expected ErrWorkspaceNotFound, got %v", err)
	}
}
