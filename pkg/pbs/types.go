package pbs

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Project is the remote project handle resolved from a short name.
type Project struct {
	ID              int            `json:"id,omitempty"`
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description"`
	LongDescription string         `json:"long_description,omitempty"`
	Info            map[string]any `json:"info,omitempty"`
}

// Task is a single unit of work belonging to a project.
type Task struct {
	ID        int     `json:"id,omitempty"`
	ProjectID int     `json:"project_id"`
	Info      any     `json:"info"`
	NAnswers  int     `json:"n_answers"`
	Priority0 float64 `json:"priority_0"`
}

// HelpingMaterial is reference material shown to volunteers alongside tasks.
type HelpingMaterial struct {
	ID        int    `json:"id,omitempty"`
	ProjectID int    `json:"project_id"`
	Info      any    `json:"info"`
	MediaURL  string `json:"media_url,omitempty"`
}

// ProjectDescriptor is the local project.json describing a project.
type ProjectDescriptor struct {
	Name        string `json:"name" validate:"required"`
	ShortName   string `json:"short_name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// RateLimit carries the server's remaining-call budget for an endpoint.
// Known is false when the server sent no rate-limit headers.
type RateLimit struct {
	Remaining int
	Reset     time.Time
	Known     bool
}

// Client is the subset of the PyBossa REST API used by pbs.
// Every method returns an *APIError for server failure shapes and an error
// wrapping ErrConnectionFailed when the server cannot be reached.
type Client interface {
	// Endpoint returns the server base URL.
	Endpoint() string

	FindProjects(ctx context.Context, shortName string, all bool) ([]Project, error)
	CreateProject(ctx context.Context, name, shortName, description string) (*Project, error)
	UpdateProject(ctx context.Context, project *Project) (*Project, error)

	CreateTask(ctx context.Context, task Task) (*Task, error)
	UpdateTask(ctx context.Context, task *Task) (*Task, error)
	DeleteTask(ctx context.Context, taskID int) error
	GetTasks(ctx context.Context, projectID, limit, offset int) ([]Task, error)
	FindTasks(ctx context.Context, projectID, taskID int) ([]Task, error)

	CreateHelpingMaterial(ctx context.Context, projectID int, info any, filePath string) (*HelpingMaterial, error)
	UpdateHelpingMaterial(ctx context.Context, hm *HelpingMaterial) (*HelpingMaterial, error)

	// RateLimit issues a header-only request against path and reports the
	// server's rate-limit headers.
	RateLimit(ctx context.Context, path string) (RateLimit, error)
}

// Progress reports per-row advancement of a bulk operation.
// Implementations need not be safe for concurrent use.
type Progress interface {
	Start(label string, total int)
	Advance()
	Done()
}

// NopProgress discards progress updates.
type NopProgress struct{}

func (NopProgress) Start(string, int) {}
func (NopProgress) Advance()          {}
func (NopProgress) Done()             {}

// ConnectionError wraps a transport failure while talking to Server.
type ConnectionError struct {
	Server string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConnectionFailed, e.Server, e.Err)
}

func (e *ConnectionError) Unwrap() []error { return []error{ErrConnectionFailed, e.Err} }

// IsSuccessStatus reports whether an HTTP status code is 2xx.
func IsSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}
