package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"workbench/internal/analyze"
	"workbench/internal/fsys"
	"workbench/internal/model"
	"workbench/internal/store"
	"workbench/internal/ticket"
)

func testServer(t *testing.T, backend string) (*Server, *fsys.MemDir) {
	t.Helper()
	root := fsys.NewMemDir("ws")
	feature := root.AddDir("features").AddDir("dark-mode")
	feature.AddFile("feature.md", "# Dark Mode\n\n## Overview\n\nSwitchable theme.\n")
	agent := feature.AddDir("agents").AddDir("ui")
	agent.AddFile("status.md", "blocked on design review")
	agent.AddFile("task-instructions.md", "build the toggle")

	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return &Server{
		Root:          root,
		WorkspacePath: "/tmp/ws",
		Backend:       analyze.NewClient(backend),
		Jira:          ticket.NewClient(backend),
		Store:         st,
	}, root
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleTree(t *testing.T) {
	srv, _ := testServer(t, "")
	w := doJSON(t, srv.Handler(), "GET", "/api/tree", "")
	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}

	var tree model.TreeNode
	if err := json.Unmarshal(w.Body.Bytes(), &tree); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tree.Find("features/dark-mode/feature.md") == nil {
		t.Error("feature.md missing from tree")
	}
	if tree.Find("features/dark-mode/agents/ui/status.md") == nil {
		t.Error("agent status.md missing from tree")
	}
}

func TestHandleFileReadWrite(t *testing.T) {
	srv, _ := testServer(t, "")
	h := srv.Handler()

	w := doJSON(t, h, "GET", "/api/file?path=features/dark-mode/feature.md", "")
	if w.Code != 200 {
		t.Fatalf("read status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "# Dark Mode") {
		t.Errorf("content = %q", w.Body.String())
	}

	w = doJSON(t, h, "POST", "/api/file", `{"path":"features/dark-mode/feature.md","content":"# Dark Mode\n\nedited\n"}`)
	if w.Code != 200 {
		t.Fatalf("write status = %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, h, "GET", "/api/file?path=features/dark-mode/feature.md", "")
	if !strings.Contains(w.Body.String(), "edited") {
		t.Error("write did not persist")
	}

	w = doJSON(t, h, "GET", "/api/file?path=features/nope.md", "")
	if w.Code != 404 {
		t.Errorf("missing file status = %d", w.Code)
	}
	w = doJSON(t, h, "GET", "/api/file?path=../etc/passwd", "")
	if w.Code != 400 {
		t.Errorf("escaping path status = %d", w.Code)
	}
}

func TestHandleStatus(t *testing.T) {
	srv, _ := testServer(t, "")
	w := doJSON(t, srv.Handler(), "GET", "/api/status?path=features/dark-mode/agents/ui", "")
	if w.Code != 200 {
		t.Fatalf("status = %d", w.Code)
	}
	var got map[string]string
	json.Unmarshal(w.Body.Bytes(), &got)
	if got["status"] != "blocked" || got["display"] != "blocked" {
		t.Errorf("got %v", got)
	}
}

func TestHandleFeatureCreate(t *testing.T) {
	srv, root := testServer(t, "")
	h := srv.Handler()

	w := doJSON(t, h, "POST", "/api/feature/create", `{"name":"New Feature","project":""}`)
	if w.Code != 400 {
		t.Errorf("invalid name status = %d", w.Code)
	}

	w = doJSON(t, h, "POST", "/api/feature/create", `{"name":"dark-mode","project":""}`)
	if w.Code != 409 {
		t.Errorf("duplicate status = %d", w.Code)
	}

	w = doJSON(t, h, "POST", "/api/feature/create", `{"name":"search","project":""}`)
	if w.Code != 200 {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	if _, err := fsys.ResolveFile(context.Background(), root, "features/search/feature.md"); err != nil {
		t.Errorf("feature.md not created: %v", err)
	}
}

func TestHandleJiraCreate(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jira/create" {
			t.Errorf("backend path = %s", r.URL.Path)
		}
		var req ticket.CreateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.ProjectKey != "AWB" {
			t.Errorf("project key = %q", req.ProjectKey)
		}
		json.NewEncoder(w).Encode(ticket.CreateResponse{
			Success: true,
			Story:   &ticket.Story{Key: "AWB-7", URL: "https://example/browse/AWB-7", Summary: "Dark Mode"},
		})
	}))
	defer backend.Close()

	srv, root := testServer(t, backend.URL)
	w := doJSON(t, srv.Handler(), "POST", "/api/jira/create",
		`{"feature_path":"features/dark-mode","project_key":"AWB","create_subtasks":true,"subtask_type":"Sub-task"}`)
	if w.Code != 200 {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	// The link was written back into feature.md.
	f, err := fsys.ResolveFile(context.Background(), root, "features/dark-mode/feature.md")
	if err != nil {
		t.Fatal(err)
	}
	content, _ := f.ReadText(context.Background())
	key, ok := ticket.HasLink(content)
	if !ok || key != "AWB-7" {
		t.Errorf("link not injected, HasLink = (%q, %v)", key, ok)
	}

	// A second attempt is rejected: the feature is already linked.
	w = doJSON(t, srv.Handler(), "POST", "/api/jira/create",
		`{"feature_path":"features/dark-mode","project_key":"AWB"}`)
	if w.Code != 409 {
		t.Errorf("relink status = %d", w.Code)
	}

	// The chosen settings were remembered.
	if v, _ := srv.Store.Get(store.PrefProjectKey); v != "AWB" {
		t.Errorf("project key pref = %q", v)
	}
}

func TestHandleDrafts(t *testing.T) {
	srv, _ := testServer(t, "")
	h := srv.Handler()

	w := doJSON(t, h, "PUT", "/api/drafts/s1", `{"1":"draft answer","2":"another"}`)
	if w.Code != 200 {
		t.Fatalf("put status = %d", w.Code)
	}

	w = doJSON(t, h, "GET", "/api/drafts/s1", "")
	var drafts map[string]string
	json.Unmarshal(w.Body.Bytes(), &drafts)
	if drafts["1"] != "draft answer" {
		t.Errorf("drafts = %v", drafts)
	}

	w = doJSON(t, h, "DELETE", "/api/drafts/s1", "")
	if w.Code != 200 {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = doJSON(t, h, "GET", "/api/drafts/s1", "")
	drafts = nil
	json.Unmarshal(w.Body.Bytes(), &drafts)
	if len(drafts) != 0 {
		t.Errorf("drafts after clear = %v", drafts)
	}
}
