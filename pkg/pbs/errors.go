package pbs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := svc.AddTasks(ctx, req)
//	if errors.Is(err, pbs.ErrProjectNotFound) {
//	    // Suggest --all or a different short name
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the PyBossa server could not be reached.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrProjectNotFound indicates the lookup returned no project or the
	// server reported a failure on a project target.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound indicates the server reported a failure on a task target.
	ErrTaskNotFound = errors.New("task not found")

	// ErrProjectAlreadyExists indicates a uniqueness violation on project creation.
	ErrProjectAlreadyExists = errors.New("project already exists")

	// ErrDatabase indicates the server hit an internal storage exception.
	ErrDatabase = errors.New("server database error")

	// ErrHTTPFailure is any other failure shape returned by the server.
	ErrHTTPFailure = errors.New("api request failed")

	// ErrUnknownFormat indicates a data file format that no decoder handles.
	ErrUnknownFormat = errors.New("unknown data format")

	// ErrInvalidData indicates a data file that could not be decoded.
	ErrInvalidData = errors.New("invalid data file")

	// ErrApprovalDenied indicates the user denied approval for the operation.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrUsage indicates the command line was used incorrectly.
	ErrUsage = errors.New("usage error")
)

// APIError is a failure shape returned by the PyBossa API, translated into
// one of the typed kinds above. Payload keeps the decoded server body so it
// can be shown to the user verbatim.
type APIError struct {
	Kind         error
	Action       string
	Target       string
	ExceptionCls string
	ExceptionMsg string
	StatusCode   int
	Payload      any
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	var parts []string
	if e.Action != "" || e.Target != "" {
		parts = append(parts, strings.TrimSpace(e.Action+" "+e.Target))
	}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status %d", e.StatusCode))
	}
	if e.ExceptionCls != "" {
		parts = append(parts, e.ExceptionCls)
	}
	if e.ExceptionMsg != "" {
		parts = append(parts, e.ExceptionMsg)
	}
	if len(parts) == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), strings.Join(parts, ", "))
}

func (e *APIError) Unwrap() error { return e.Kind }

// FormatPayload renders the server payload as indented JSON with sorted keys.
// An empty lookup result reads "Project not found" (or "Task not found"); a
// nil payload falls back to the error text.
func (e *APIError) FormatPayload() string {
	if e == nil {
		return ""
	}
	if list, ok := e.Payload.([]any); ok && len(list) == 0 {
		if errors.Is(e.Kind, ErrTaskNotFound) {
			return "Task not found"
		}
		return "Project not found"
	}
	if e.Payload == nil {
		return e.Error()
	}
	data, err := json.MarshalIndent(e.Payload, "", "    ")
	if err != nil {
		return e.Error()
	}
	return string(data)
}

// cobraUsagePatterns prefix the argument and flag errors cobra returns
// without a sentinel.
var cobraUsagePatterns = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"accepts ",
	"required flag",
	"invalid argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrTaskNotFound):
		return ExitNotFound
	case errors.Is(err, ErrProjectAlreadyExists):
		return ExitAlreadyExists
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrDatabase), errors.Is(err, ErrHTTPFailure):
		return ExitAPIError
	case errors.Is(err, ErrUnknownFormat), errors.Is(err, ErrInvalidData):
		return ExitDataError
	}

	errStr := err.Error()
	for _, pattern := range cobraUsagePatterns {
		if strings.HasPrefix(errStr, pattern) {
			return ExitUsageError
		}
	}
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
