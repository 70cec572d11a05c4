package services

import (
	"context"
	"fmt"
	"time"

	"github.com/pybossa/pbs/internal/logging"
	"github.com/pybossa/pbs/internal/ratelimit"
	"github.com/pybossa/pbs/pkg/pbs"
)

const testServer = "http://server"

type helpingCall struct {
	ProjectID int
	Info      any
	FilePath  string
}

// mockClient is an in-memory pbs.Client. Calls are recorded in order; the
// *Err fields make the matching method fail.
type mockClient struct {
	projects []pbs.Project
	findErr  error

	createProjectErr error
	updateProjectErr error
	createTaskErr    error
	createTaskErrAt  int // 1-based call that fails; 0 means every call
	updateTaskErr    error
	deleteErr        error
	getTasksErr      error
	findTasksErr     error
	helpingErr       error

	// pages are returned by successive GetTasks calls; the last one repeats.
	pages     [][]pbs.Task
	foundTask []pbs.Task
	remote    map[string]any
	rateLimit pbs.RateLimit

	calls           []string
	createdTasks    []pbs.Task
	updatedTasks    []pbs.Task
	deletedIDs      []int
	getTasksOffsets []int
	getTasksLimits  []int
	updatedProjects []pbs.Project
	createdHelping  []helpingCall
	updatedHelping  []pbs.HelpingMaterial
	createdProjects []pbs.ProjectDescriptor
	rateLimitProbes []string
}

func newMockClient() *mockClient {
	return &mockClient{
		projects: []pbs.Project{{ID: 1, Name: "name", ShortName: "short_name", Description: "description"}},
	}
}

func (m *mockClient) Endpoint() string { return testServer }

func (m *mockClient) FindProjects(_ context.Context, shortName string, all bool) ([]pbs.Project, error) {
	m.calls = append(m.calls, fmt.Sprintf("find %s all=%t", shortName, all))
	return m.projects, m.findErr
}

func (m *mockClient) CreateProject(_ context.Context, name, shortName, description string) (*pbs.Project, error) {
	m.calls = append(m.calls, "create-project")
	if m.createProjectErr != nil {
		return nil, m.createProjectErr
	}
	m.createdProjects = append(m.createdProjects, pbs.ProjectDescriptor{Name: name, ShortName: shortName, Description: description})
	return &pbs.Project{ID: 2, Name: name, ShortName: shortName, Description: description}, nil
}

func (m *mockClient) UpdateProject(_ context.Context, project *pbs.Project) (*pbs.Project, error) {
	m.calls = append(m.calls, "update-project")
	if m.updateProjectErr != nil {
		return nil, m.updateProjectErr
	}
	m.updatedProjects = append(m.updatedProjects, *project)
	return project, nil
}

func (m *mockClient) CreateTask(_ context.Context, task pbs.Task) (*pbs.Task, error) {
	m.calls = append(m.calls, "create-task")
	n := len(m.createdTasks) + 1
	if m.createTaskErr != nil && (m.createTaskErrAt == 0 || m.createTaskErrAt == n) {
		return nil, m.createTaskErr
	}
	task.ID = n
	m.createdTasks = append(m.createdTasks, task)
	return &task, nil
}

func (m *mockClient) UpdateTask(_ context.Context, task *pbs.Task) (*pbs.Task, error) {
	m.calls = append(m.calls, fmt.Sprintf("update-task %d", task.ID))
	if m.updateTaskErr != nil {
		return nil, m.updateTaskErr
	}
	m.updatedTasks = append(m.updatedTasks, *task)
	return task, nil
}

func (m *mockClient) DeleteTask(_ context.Context, taskID int) error {
	m.calls = append(m.calls, fmt.Sprintf("delete-task %d", taskID))
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, taskID)
	return nil
}

func (m *mockClient) GetTasks(_ context.Context, _ int, limit, offset int) ([]pbs.Task, error) {
	m.calls = append(m.calls, "get-tasks")
	m.getTasksLimits = append(m.getTasksLimits, limit)
	m.getTasksOffsets = append(m.getTasksOffsets, offset)
	if m.getTasksErr != nil {
		return nil, m.getTasksErr
	}
	if len(m.pages) == 0 {
		return nil, nil
	}
	page := m.pages[0]
	if len(m.pages) > 1 {
		m.pages = m.pages[1:]
	}
	return append([]pbs.Task(nil), page...), nil
}

func (m *mockClient) FindTasks(_ context.Context, _ int, taskID int) ([]pbs.Task, error) {
	m.calls = append(m.calls, fmt.Sprintf("find-task %d", taskID))
	return m.foundTask, m.findTasksErr
}

func (m *mockClient) CreateHelpingMaterial(_ context.Context, projectID int, info any, filePath string) (*pbs.HelpingMaterial, error) {
	m.calls = append(m.calls, "create-helping")
	if m.helpingErr != nil {
		return nil, m.helpingErr
	}
	m.createdHelping = append(m.createdHelping, helpingCall{ProjectID: projectID, Info: info, FilePath: filePath})
	remote := map[string]any{}
	for k, v := range m.remote {
		remote[k] = v
	}
	return &pbs.HelpingMaterial{ID: len(m.createdHelping), ProjectID: projectID, Info: remote}, nil
}

func (m *mockClient) UpdateHelpingMaterial(_ context.Context, hm *pbs.HelpingMaterial) (*pbs.HelpingMaterial, error) {
	m.calls = append(m.calls, "update-helping")
	m.updatedHelping = append(m.updatedHelping, *hm)
	return hm, nil
}

func (m *mockClient) RateLimit(_ context.Context, path string) (pbs.RateLimit, error) {
	m.calls = append(m.calls, "probe")
	m.rateLimitProbes = append(m.rateLimitProbes, path)
	return m.rateLimit, nil
}

var _ pbs.Client = (*mockClient)(nil)

type mockApprover struct {
	approved bool
	err      error
	asked    []string
}

func (m *mockApprover) RequestApproval(_ context.Context, shortName string) (bool, error) {
	m.asked = append(m.asked, shortName)
	return m.approved, m.err
}

type mockProgress struct {
	label    string
	total    int
	advanced int
	done     bool
}

func (m *mockProgress) Start(label string, total int) { m.label, m.total = label, total }
func (m *mockProgress) Advance()                      { m.advanced++ }
func (m *mockProgress) Done()                         { m.done = true }

// testPacer paces against client without ever sleeping; slept collects the
// requested pauses.
func testPacer(client *mockClient, slept *[]time.Duration) *ratelimit.Pacer {
	return ratelimit.NewPacer(client, logging.NewNullLogger()).
		WithSleep(func(_ context.Context, d time.Duration) error {
			if slept != nil {
				*slept = append(*slept, d)
			}
			return nil
		})
}

func connectionError() error {
	return &pbs.ConnectionError{Server: testServer, Err: fmt.Errorf("dial tcp: connection refused")}
}

func projectError() error {
	return &pbs.APIError{Kind: pbs.ErrProjectNotFound, Target: "project", StatusCode: 415,
		Payload: map[string]any{"status": "failed", "target": "project", "status_code": 415}}
}

func taskError() error {
	return &pbs.APIError{Kind: pbs.ErrTaskNotFound, Target: "task", StatusCode: 415,
		Payload: map[string]any{"status": "failed", "target": "task", "status_code": 415}}
}
