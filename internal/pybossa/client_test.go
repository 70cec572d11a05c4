package pybossa

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/internal/logging"
	"github.com/pybossa/pbs/pkg/pbs"
)

// fakeServer records what the client sent so tests can assert on it.
type fakeServer struct {
	mu        sync.Mutex
	apiKeys   []string
	requestID []string
	bodies    []map[string]any
	multipart map[string]string
	upload    []byte
}

func (f *fakeServer) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apiKeys = append(f.apiKeys, r.URL.Query().Get("api_key"))
	f.requestID = append(f.requestID, r.Header.Get("X-Request-ID"))
	if r.Header.Get("Content-Type") == "application/json" {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies = append(f.bodies, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T, f *fakeServer) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodHead && req.Header.Get("Content-Type") == "application/json" {
				f.record(req)
			} else {
				f.mu.Lock()
				f.apiKeys = append(f.apiKeys, req.URL.Query().Get("api_key"))
				f.requestID = append(f.requestID, req.Header.Get("X-Request-ID"))
				f.mu.Unlock()
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/api/project", func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Query().Get("short_name") {
		case "flickr":
			if req.URL.Query().Get("all") != "1" {
				writeJSON(w, http.StatusOK, []any{})
				return
			}
			writeJSON(w, http.StatusOK, []map[string]any{{"id": 7, "name": "Flickr", "short_name": "flickr"}})
		case "broken":
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"status": "failed", "action": "GET", "target": "project",
				"exception_cls": "ProgrammingError", "exception_msg": "boom", "status_code": 500,
			})
		default:
			writeJSON(w, http.StatusOK, []any{})
		}
	})
	r.Post("/api/project", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status": "failed", "action": "POST", "target": "project",
			"exception_cls": "DBIntegrityError", "exception_msg": "duplicate short_name", "status_code": 415,
		})
	})
	r.Put("/api/project/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "name": "Updated", "short_name": "flickr"})
	})
	r.Post("/api/task", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 99, "project_id": 7, "info": map[string]any{"q": "a"}, "n_answers": 5})
	})
	r.Delete("/api/task/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") == "404" {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"status": "failed", "action": "DELETE", "target": "task",
				"exception_cls": "NotFound", "status_code": 404,
			})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/task", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		if q.Get("id") != "" {
			id, _ := strconv.Atoi(q.Get("id"))
			writeJSON(w, http.StatusOK, []map[string]any{{"id": id, "project_id": 7, "n_answers": 30}})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "project_id": 7, "info": map[string]any{"limit": q.Get("limit"), "offset": q.Get("offset")}},
		})
	})
	r.Head("/api/task", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "9")
		w.Header().Set("X-RateLimit-Reset", "1700000010")
	})
	r.Head("/api/helpingmaterial", func(w http.ResponseWriter, req *http.Request) {})
	r.Post("/api/helpingmaterial", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(1 << 20); err == nil {
			f.mu.Lock()
			f.multipart = map[string]string{
				"project_id": req.FormValue("project_id"),
				"info":       req.FormValue("info"),
			}
			file, header, ferr := req.FormFile("file")
			if ferr == nil {
				f.upload, _ = io.ReadAll(file)
				f.multipart["filename"] = header.Filename
				file.Close()
			}
			f.mu.Unlock()
			writeJSON(w, http.StatusOK, map[string]any{"id": 3, "project_id": 7, "info": map[string]any{"file_url": "http://cdn/x.png"}})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "project_id": 7, "info": map[string]any{"a": 1}})
	})
	r.Put("/api/helpingmaterial/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "id"))
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "project_id": 7, "info": map[string]any{"done": true}})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, fsProvider filesystem.FileSystemProvider) *Client {
	t.Helper()
	return NewClient(Config{Endpoint: srv.URL + "/", APIKey: "secret", FS: fsProvider}, logging.NewNullLogger())
}

func TestNewClient_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { NewClient(Config{Endpoint: "http://x"}, nil) })
}

func TestClient_FindProjects(t *testing.T) {
	f := &fakeServer{}
	srv := newTestServer(t, f)
	c := newTestClient(t, srv, nil)
	ctx := context.Background()

	assert.Equal(t, srv.URL, c.Endpoint())

	projects, err := c.FindProjects(ctx, "flickr", true)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 7, projects[0].ID)
	assert.Equal(t, "flickr", projects[0].ShortName)

	projects, err = c.FindProjects(ctx, "flickr", false)
	require.NoError(t, err)
	assert.Empty(t, projects)

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range f.apiKeys {
		assert.Equal(t, "secret", key)
	}
	require.NotEmpty(t, f.requestID)
	assert.NotEmpty(t, f.requestID[0])
	assert.Equal(t, f.requestID[0], f.requestID[len(f.requestID)-1])
}

func TestClient_ErrorTranslation(t *testing.T) {
	srv := newTestServer(t, &fakeServer{})
	c := newTestClient(t, srv, nil)
	ctx := context.Background()

	_, err := c.FindProjects(ctx, "broken", false)
	assert.ErrorIs(t, err, pbs.ErrDatabase)

	_, err = c.CreateProject(ctx, "Flickr", "flickr", "desc")
	require.ErrorIs(t, err, pbs.ErrProjectAlreadyExists)
	var apiErr *pbs.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 415, apiErr.StatusCode)
	assert.Equal(t, "POST", apiErr.Action)
	assert.Contains(t, apiErr.FormatPayload(), `"exception_cls": "DBIntegrityError"`)

	err = c.DeleteTask(ctx, 404)
	assert.ErrorIs(t, err, pbs.ErrTaskNotFound)
}

func TestClient_Tasks(t *testing.T) {
	f := &fakeServer{}
	srv := newTestServer(t, f)
	c := newTestClient(t, srv, nil)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, pbs.Task{ProjectID: 7, Info: map[string]any{"q": "a"}, NAnswers: 5, Priority0: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 99, created.ID)

	f.mu.Lock()
	require.Len(t, f.bodies, 1)
	assert.Equal(t, float64(7), f.bodies[0]["project_id"])
	assert.Equal(t, float64(5), f.bodies[0]["n_answers"])
	assert.Equal(t, 0.5, f.bodies[0]["priority_0"])
	assert.NotContains(t, f.bodies[0], "id")
	f.mu.Unlock()

	require.NoError(t, c.DeleteTask(ctx, 1))

	page, err := c.GetTasks(ctx, 7, 100, 200)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, map[string]any{"limit": "100", "offset": "200"}, page[0].Info)

	found, err := c.FindTasks(ctx, 7, 42)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 42, found[0].ID)
}

func TestClient_UpdateProject(t *testing.T) {
	srv := newTestServer(t, &fakeServer{})
	c := newTestClient(t, srv, nil)

	updated, err := c.UpdateProject(context.Background(), &pbs.Project{ID: 7, Name: "Updated", ShortName: "flickr"})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.ID)
	assert.Equal(t, "Updated", updated.Name)
}

func TestClient_HelpingMaterialUpload(t *testing.T) {
	f := &fakeServer{}
	srv := newTestServer(t, f)
	mfs := filesystem.NewMemoryFileSystem("/data")
	mfs.AddFile("images/x.png", "PNGDATA")
	c := newTestClient(t, srv, mfs)
	ctx := context.Background()

	hm, err := c.CreateHelpingMaterial(ctx, 7, map[string]any{"caption": "x"}, "images/x.png")
	require.NoError(t, err)
	assert.Equal(t, 3, hm.ID)
	assert.Equal(t, map[string]any{"file_url": "http://cdn/x.png"}, hm.Info)

	f.mu.Lock()
	assert.Equal(t, "7", f.multipart["project_id"])
	assert.JSONEq(t, `{"caption":"x"}`, f.multipart["info"])
	assert.Equal(t, "x.png", f.multipart["filename"])
	assert.Equal(t, "PNGDATA", string(f.upload))
	f.mu.Unlock()

	hm, err = c.CreateHelpingMaterial(ctx, 7, map[string]any{"a": 1}, "")
	require.NoError(t, err)
	assert.Equal(t, 4, hm.ID)

	updated, err := c.UpdateHelpingMaterial(ctx, &pbs.HelpingMaterial{ID: 3, ProjectID: 7, Info: map[string]any{"done": true}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"done": true}, updated.Info)

	_, err = c.CreateHelpingMaterial(ctx, 7, nil, "images/missing.png")
	assert.ErrorContains(t, err, "failed to read helping material file")
}

func TestClient_RateLimit(t *testing.T) {
	srv := newTestServer(t, &fakeServer{})
	c := newTestClient(t, srv, nil)
	ctx := context.Background()

	rl, err := c.RateLimit(ctx, pbs.TaskEndpoint)
	require.NoError(t, err)
	assert.True(t, rl.Known)
	assert.Equal(t, 9, rl.Remaining)
	assert.Equal(t, time.Unix(1700000010, 0), rl.Reset)

	rl, err = c.RateLimit(ctx, pbs.HelpingMaterialEndpoint)
	require.NoError(t, err)
	assert.False(t, rl.Known)
}

func TestClient_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Config{Endpoint: url, Timeout: time.Second}, logging.NewNullLogger())
	_, err := c.FindProjects(context.Background(), "flickr", false)
	require.ErrorIs(t, err, pbs.ErrConnectionFailed)

	var connErr *pbs.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, url, connErr.Server)
	assert.Equal(t, pbs.ExitConnectionError, pbs.ExitCodeForError(err))
}

func TestClient_CancelledContext(t *testing.T) {
	srv := newTestServer(t, &fakeServer{})
	c := newTestClient(t, srv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.FindProjects(ctx, "flickr", true)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, pbs.ErrConnectionFailed)
}
