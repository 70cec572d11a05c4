package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pybossa/pbs/pkg/pbs"
)

// pybossaStub is an in-memory PyBossa API holding one project.
type pybossaStub struct {
	mu         sync.Mutex
	shortName  string
	projectID  int
	tasks      map[int]map[string]any
	nextTaskID int
	created    []map[string]any
	deleted    []int
	projects   []map[string]any
	helping    []map[string]any
}

func newPyBossaStub(t *testing.T, taskIDs ...int) (*pybossaStub, *httptest.Server) {
	t.Helper()
	stub := &pybossaStub{
		shortName:  "flickr",
		projectID:  7,
		tasks:      make(map[int]map[string]any),
		nextTaskID: 1000,
	}
	for _, id := range taskIDs {
		stub.tasks[id] = map[string]any{"id": id, "project_id": 7, "n_answers": 30}
	}

	r := chi.NewRouter()
	r.Get("/api/project", stub.findProject)
	r.Post("/api/project", stub.createProject)
	r.Put("/api/project/{id}", stub.updateProject)
	r.Head("/api/task", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Head("/api/helpingmaterial", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/api/task", stub.getTasks)
	r.Post("/api/task", stub.createTask)
	r.Put("/api/task/{id}", stub.updateTask)
	r.Delete("/api/task/{id}", stub.deleteTask)
	r.Post("/api/helpingmaterial", stub.createHelping)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return stub, srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func (s *pybossaStub) project() map[string]any {
	return map[string]any{"id": s.projectID, "name": "Flickr", "short_name": s.shortName, "info": map[string]any{}}
}

func (s *pybossaStub) findProject(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("short_name") != s.shortName {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, []any{s.project()})
}

func (s *pybossaStub) createProject(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	s.mu.Lock()
	s.projects = append(s.projects, body)
	s.mu.Unlock()
	if body["short_name"] == s.shortName {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "failed", "action": "POST", "target": "project",
			"exception_cls": "DBIntegrityError", "exception_msg": "duplicate short_name", "status_code": 415,
		})
		return
	}
	body["id"] = 8
	writeJSON(w, http.StatusOK, body)
}

func (s *pybossaStub) updateProject(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	s.mu.Lock()
	s.projects = append(s.projects, body)
	s.mu.Unlock()
	body["id"] = s.projectID
	writeJSON(w, http.StatusOK, body)
}

func (s *pybossaStub) sortedTaskIDs() []int {
	ids := make([]int, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *pybossaStub) getTasks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := r.URL.Query()
	if id := q.Get("id"); id != "" {
		n, _ := strconv.Atoi(id)
		if task, ok := s.tasks[n]; ok {
			writeJSON(w, http.StatusOK, []any{task})
			return
		}
		writeJSON(w, http.StatusOK, []any{})
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	ids := s.sortedTaskIDs()
	page := []any{}
	for i := offset; i < len(ids) && i < offset+limit; i++ {
		page = append(page, s.tasks[ids[i]])
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *pybossaStub) createTask(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextTaskID++
	body["id"] = s.nextTaskID
	s.created = append(s.created, body)
	writeJSON(w, http.StatusOK, body)
}

func (s *pybossaStub) updateTask(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	body["id"] = id
	s.tasks[id] = body
	writeJSON(w, http.StatusOK, body)
}

func (s *pybossaStub) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"status": "failed", "action": "DELETE", "target": "task",
			"exception_cls": "NotFound", "status_code": 404,
		})
		return
	}
	delete(s.tasks, id)
	s.deleted = append(s.deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *pybossaStub) createHelping(w http.ResponseWriter, r *http.Request) {
	body := decodeBody(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helping = append(s.helping, body)
	body["id"] = len(s.helping)
	writeJSON(w, http.StatusOK, body)
}

// resetFlags restores every command's flag values to their defaults.
func resetFlags() {
	globalFlags = globalFlagValues{project: "project.json"}
	resetUpdateProjectFlags()
	resetAddTasksFlags()
	resetAddHelpingFlags()
	resetDeleteTasksFlags()
	resetUpdateRedundancyFlags()
	resetInitFlags()
}

// isolateEnv keeps the user's credentials and environment out of the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PBS_NON_INTERACTIVE", "1")
	t.Setenv("PBS_SERVER", "")
	t.Setenv("PBS_API_KEY", "")
	t.Setenv("PBS_PROFILE", "")
	t.Setenv("PBS_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

// runCommand executes the root command with args and returns its stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	isolateEnv(t)
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// writeProjectDir writes a project.json for shortName plus any extra files
// into a temp directory and returns the directory.
func writeProjectDir(t *testing.T, shortName string, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	descriptor := `{"name": "Flickr", "short_name": "` + shortName + `", "description": "Find people"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.json"), []byte(descriptor), 0644))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// stubApprover replaces the delete confirmation for the duration of a test.
func stubApprover(t *testing.T, approve bool) {
	t.Helper()
	original := newApprover
	newApprover = func(force, verbose bool) pbs.Approver { return fixedApprover(approve) }
	t.Cleanup(func() { newApprover = original })
}

type fixedApprover bool

func (a fixedApprover) RequestApproval(context.Context, string) (bool, error) {
	return bool(a), nil
}
