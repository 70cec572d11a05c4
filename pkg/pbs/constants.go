package pbs

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or project descriptor
	ExitConnectionError = 11 // PyBossa server unreachable
	ExitApprovalDenied  = 12 // User denied a destructive operation
	ExitAPIError        = 13 // Server returned a failure payload
	ExitNotFound        = 14 // Project or task not found
	ExitAlreadyExists   = 15 // Project short name already taken
	ExitDataError       = 16 // Data file could not be decoded
)

const (
	// DefaultServer is used when neither flags, environment nor profile name a server.
	DefaultServer = "http://localhost:5000"

	// DefaultProfile is the credentials profile used when none is selected.
	DefaultProfile = "default"

	// DefaultHTTPTimeout bounds a single API round trip.
	DefaultHTTPTimeout = 60 * time.Second

	// RateLimitLowWater is the remaining-calls threshold at or below which
	// submissions pause until the server's reset time.
	RateLimitLowWater = 10

	// DeletePageSize is the page size used when deleting all tasks.
	DeletePageSize = 100

	// UpdatePageSize is the page size used when updating all task redundancies.
	UpdatePageSize = 300

	// DefaultRedundancy is the number of answers requested per task.
	DefaultRedundancy = 30

	// DefaultForceApprovalCountdown is the countdown duration before forced deletion proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultWatchDebounce coalesces bursts of file events from a single save.
	DefaultWatchDebounce = 300 * time.Millisecond

	// TaskEndpoint and HelpingMaterialEndpoint are probed for rate-limit headers.
	TaskEndpoint            = "/api/task"
	HelpingMaterialEndpoint = "/api/helpingmaterial"
)
