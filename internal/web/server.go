package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"workbench/internal/analyze"
	"workbench/internal/fsys"
	"workbench/internal/model"
	"workbench/internal/scan"
	"workbench/internal/schema"
	"workbench/internal/status"
	"workbench/internal/store"
	"workbench/internal/ticket"
	"workbench/internal/workspace"
)

//go:embed static/*
var staticFS embed.FS

//go:embed help.md
var helpMD string

// Server wires the scanner, mutator and backend clients behind a JSON API
// plus the embedded browser UI.
type Server struct {
	Root          fsys.Dir
	WorkspacePath string
	Backend       *analyze.Client
	Jira          *ticket.Client
	Store         *store.Store
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	subFS, _ := fs.Sub(staticFS, "static")
	mux.Handle("/", http.FileServer(http.FS(subFS)))

	// API Endpoints
	mux.HandleFunc("GET /api/tree", s.handleTree)
	mux.HandleFunc("GET /api/file", s.handleFileRead)
	mux.HandleFunc("POST /api/file", s.handleFileWrite)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/exists", s.handleExists)
	mux.HandleFunc("POST /api/feature/create", s.handleFeatureCreate)
	mux.HandleFunc("GET /api/help", s.handleHelp)

	mux.HandleFunc("GET /api/prefs", s.handlePrefsGet)
	mux.HandleFunc("POST /api/prefs", s.handlePrefsSet)
	mux.HandleFunc("GET /api/drafts/{session}", s.handleDraftsGet)
	mux.HandleFunc("PUT /api/drafts/{session}", s.handleDraftsPut)
	mux.HandleFunc("DELETE /api/drafts/{session}", s.handleDraftsClear)

	mux.HandleFunc("POST /api/analyze/start", s.handleAnalyzeStart)
	mux.HandleFunc("POST /api/analyze/{session}/answers", s.handleAnalyzeAnswers)
	mux.HandleFunc("POST /api/analyze/{session}/cancel", s.handleAnalyzeCancel)
	mux.HandleFunc("GET /api/analyze/{session}/status", s.handleAnalyzeStatus)
	mux.HandleFunc("GET /api/analyze/{session}/events", s.handleAnalyzeEvents)

	mux.HandleFunc("POST /api/jira/create", s.handleJiraCreate)

	return mux
}

// Start runs the server until it fails.
func (s *Server) Start(listen string) error {
	fmt.Printf("Starting workbench web server at http://%s\n", listen)
	fmt.Printf("Go to http://%s in your browser.\n", listen)
	return http.ListenAndServe(listen, s.Handler())
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree := scan.Scan(r.Context(), s.Root)
	writeJSON(w, tree)
}

func (s *Server) handleFileRead(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if !validPath(path) {
		http.Error(w, "path is required", 400)
		return
	}
	f, err := fsys.ResolveFile(r.Context(), s.Root, path)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	content, err := f.ReadText(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(content))
}

func (s *Server) handleFileWrite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", 400)
		return
	}
	if !validPath(req.Path) {
		http.Error(w, "path is required", 400)
		return
	}
	f, err := fsys.ResolveFile(r.Context(), s.Root, req.Path)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if err := f.WriteText(r.Context(), req.Content); err != nil {
		slog.Error("web: file write failed", "path", req.Path, "error", err)
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

// handleStatus classifies an agent folder's status.md. Accepts either the
// agent folder path or the status.md path itself.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if !validPath(path) {
		http.Error(w, "path is required", 400)
		return
	}
	if schema.IsAgentDir(path) {
		path = path + "/status.md"
	}

	st := status.NotStarted
	if f, err := fsys.ResolveFile(r.Context(), s.Root, path); err == nil {
		if content, err := f.ReadText(r.Context()); err == nil {
			st = status.Parse(content)
		}
	}
	writeJSON(w, map[string]string{
		"status":  string(st),
		"display": status.DisplayText(st),
	})
}

func (s *Server) handleExists(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	project := r.URL.Query().Get("project")
	if name == "" {
		http.Error(w, "name is required", 400)
		return
	}
	segments := append(schema.FeatureSegments(project), name)
	exists, err := workspace.Exists(r.Context(), s.Root, segments)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, map[string]bool{"exists": exists})
}

func (s *Server) handleFeatureCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Project string `json:"project"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", 400)
		return
	}
	// Validation happens before any mutation is attempted.
	if !workspace.ValidFeatureName(req.Name) {
		http.Error(w, "feature name must be lowercase kebab-case", 400)
		return
	}
	segments := schema.FeatureSegments(req.Project)
	exists, err := workspace.Exists(r.Context(), s.Root, append(segments, req.Name))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if exists {
		http.Error(w, "feature already exists", 409)
		return
	}
	if _, _, err := workspace.CreateFeature(r.Context(), s.Root, segments, req.Name); err != nil {
		slog.Error("web: feature create failed", "name", req.Name, "error", err)
		http.Error(w, err.Error(), 500)
		return
	}
	path := strings.Join(append(segments, req.Name), "/")
	writeJSON(w, map[string]string{"path": path, "title": workspace.FeatureTitle(req.Name)})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	// Use the embedded help content
	text := strings.ReplaceAll(helpMD, "{{VERSION}}", model.Version)
	w.Header().Set("Content-Type", "text/markdown")
	w.Write([]byte(text))
}

func (s *Server) handlePrefsGet(w http.ResponseWriter, r *http.Request) {
	prefs := map[string]string{}
	for _, key := range []string{store.PrefProjectKey, store.PrefSubtaskType, store.PrefCreateSubtasks} {
		value, err := s.Store.Get(key)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		prefs[key] = value
	}
	writeJSON(w, prefs)
}

func (s *Server) handlePrefsSet(w http.ResponseWriter, r *http.Request) {
	var prefs map[string]string
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		http.Error(w, "invalid request body", 400)
		return
	}
	for key, value := range prefs {
		if err := s.Store.Set(key, value); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleDraftsGet(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.Store.Drafts(r.PathValue("session"))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, drafts)
}

func (s *Server) handleDraftsPut(w http.ResponseWriter, r *http.Request) {
	var drafts map[int]string
	if err := json.NewDecoder(r.Body).Decode(&drafts); err != nil {
		http.Error(w, "invalid request body", 400)
		return
	}
	session := r.PathValue("session")
	for id, answer := range drafts {
		if err := s.Store.SaveDraft(session, id, answer); err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleDraftsClear(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.ClearDrafts(r.PathValue("session")); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleAnalyzeStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FeaturePath string `json:"feature_path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", 400)
		return
	}
	if !validPath(req.FeaturePath) {
		http.Error(w, "feature_path is required", 400)
		return
	}
	resp, err := s.Backend.Start(r.Context(), s.WorkspacePath, req.FeaturePath)
	if err != nil {
		slog.Error("web: analyze start failed", "feature", req.FeaturePath, "error", err)
		http.Error(w, err.Error(), 502)
		return
	}
	writeJSON(w, resp)
}

func (s *Server) handleAnalyzeAnswers(w http.ResponseWriter, r *http.Request) {
	session := r.PathValue("session")
	var req struct {
		Answers []analyze.Answer `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", 400)
		return
	}
	if err := s.Backend.SubmitAnswers(r.Context(), session, req.Answers); err != nil {
		http.Error(w, err.Error(), 502)
		return
	}
	// Submitted answers retire their drafts.
	if err := s.Store.ClearDrafts(session); err != nil {
		slog.Warn("web: clear drafts failed", "session", session, "error", err)
	}
	writeJSON(w, map[string]string{"status": "processing"})
}

func (s *Server) handleAnalyzeCancel(w http.ResponseWriter, r *http.Request) {
	if err := s.Backend.Cancel(r.Context(), r.PathValue("session")); err != nil {
		http.Error(w, err.Error(), 502)
		return
	}
	writeJSON(w, map[string]string{"status": "cancelled"})
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.Backend.Status(r.Context(), r.PathValue("session"))
	if err != nil {
		http.Error(w, err.Error(), 502)
		return
	}
	writeJSON(w, resp)
}

// handleAnalyzeEvents relays the backend's event stream to the browser, one
// line per event, flushed as they arrive.
func (s *Server) handleAnalyzeEvents(w http.ResponseWriter, r *http.Request) {
	stream, err := s.Backend.Stream(r.Context(), r.PathValue("session"))
	if err != nil {
		http.Error(w, err.Error(), 502)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	for {
		ev, err := stream.Next()
		if err != nil {
			return
		}
		line := map[string]any{"type": ev.Type}
		switch ev.Type {
		case analyze.EventOutput:
			line["text"] = ev.Text
		case analyze.EventQuestions:
			line["questions"] = ev.Questions
		case analyze.EventError:
			line["error"] = ev.Err
		}
		if err := enc.Encode(line); err != nil {
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
		if ev.Terminal() {
			return
		}
	}
}

// handleJiraCreate reads the feature document, asks the backend to create
// the ticket, then injects the returned link back into feature.md and
// remembers the chosen project settings.
func (s *Server) handleJiraCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FeaturePath    string `json:"feature_path"`
		ProjectKey     string `json:"project_key"`
		CreateSubtasks bool   `json:"create_subtasks"`
		SubtaskType    string `json:"subtask_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", 400)
		return
	}
	if req.ProjectKey == "" {
		http.Error(w, "project_key is required", 400)
		return
	}
	if !validPath(req.FeaturePath) {
		http.Error(w, "feature_path is required", 400)
		return
	}

	mdPath := req.FeaturePath + "/feature.md"
	f, err := fsys.ResolveFile(r.Context(), s.Root, mdPath)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	content, err := f.ReadText(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if key, ok := ticket.HasLink(content); ok {
		http.Error(w, "feature is already linked to "+key, 409)
		return
	}

	resp, err := s.Jira.Create(r.Context(), ticket.CreateRequest{
		FeatureContent: content,
		FeaturePath:    req.FeaturePath,
		ProjectKey:     req.ProjectKey,
		CreateSubtasks: req.CreateSubtasks,
		SubtaskType:    req.SubtaskType,
	})
	if err != nil {
		slog.Error("web: jira create failed", "feature", req.FeaturePath, "error", err)
		http.Error(w, err.Error(), 502)
		return
	}

	if resp.Success && resp.Story != nil {
		updated := ticket.InsertLink(content, resp.Story.Key, resp.Story.URL)
		if err := f.WriteText(r.Context(), updated); err != nil {
			slog.Error("web: ticket link write failed", "path", mdPath, "error", err)
		}
		s.Store.Set(store.PrefProjectKey, req.ProjectKey)
		s.Store.Set(store.PrefSubtaskType, req.SubtaskType)
		s.Store.Set(store.PrefCreateSubtasks, fmt.Sprintf("%t", req.CreateSubtasks))
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// validPath rejects empty and escaping paths; everything the API touches is
// root-relative within the workspace.
func validPath(path string) bool {
	if path == "" || strings.HasPrefix(path, "/") {
		return false
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

func statusFor(err error) int {
	if errors.Is(err, fsys.ErrNotFound) {
		return 404
	}
	return 500
}
