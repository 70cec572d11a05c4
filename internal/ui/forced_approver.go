package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pybossa/pbs/pkg/pbs"
)

// ForcedApprover implements the Approver interface for forced (non-interactive)
// approval. It displays a countdown and automatically approves after the countdown,
// used when the --force flag is provided.
type ForcedApprover struct {
	verbose bool
	output  io.Writer
	sleepFn func(time.Duration)
}

// NewForcedApprover creates a new ForcedApprover.
func NewForcedApprover(verbose bool) pbs.Approver {
	return &ForcedApprover{verbose: verbose, output: os.Stderr, sleepFn: time.Sleep}
}

// RequestApproval displays a countdown and automatically approves after the countdown.
func (a *ForcedApprover) RequestApproval(ctx context.Context, shortName string) (bool, error) {
	fmt.Fprintf(a.output, "\nDANGER: every task and task run of project '%s' will be deleted.\n\n", shortName)

	countdownSeconds := int(pbs.DefaultForceApprovalCountdown.Seconds())
	for i := countdownSeconds; i > 0; i-- {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
			fmt.Fprintf(a.output, "\rDeleting in: %d seconds... (Press Ctrl+C to cancel)", i)
			a.sleepFn(time.Second)
		}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(a.output, "\r✓ Proceeding with task deletion...                              \n")
	return true, nil
}

// Verify ForcedApprover implements the Approver interface at compile time
var _ pbs.Approver = (*ForcedApprover)(nil)
