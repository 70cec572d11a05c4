package pbs

import "context"

// Approver handles user interaction for approval workflows,
// particularly for destructive operations like deleting every task.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type the project short name
type Approver interface {
	// RequestApproval prompts for confirmation before deleting all tasks of a project.
	//
	// Returns:
	//   - bool: true if approved, false if denied
	//   - error: Any error that occurred during the approval process
	RequestApproval(ctx context.Context, shortName string) (bool, error)
}
