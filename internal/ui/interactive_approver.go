package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pybossa/pbs/pkg/pbs"
)

// InteractiveApprover implements the Approver interface for console-based
// interactive confirmation. It prompts the user to type the project short
// name before every task is deleted.
type InteractiveApprover struct {
	verbose bool
	input   io.Reader
	output  io.Writer
}

// NewInteractiveApprover creates a new InteractiveApprover.
func NewInteractiveApprover(verbose bool) pbs.Approver {
	return &InteractiveApprover{verbose: verbose, input: os.Stdin, output: os.Stderr}
}

// RequestApproval prompts the user to type the project short name to confirm.
func (a *InteractiveApprover) RequestApproval(ctx context.Context, shortName string) (bool, error) {
	fmt.Fprintf(a.output, "\n⚠️  WARNING: You are about to delete ALL tasks of project '%s'\n", shortName)
	fmt.Fprintln(a.output, "This will permanently delete every task and its task runs!")
	fmt.Fprintf(a.output, "\nTo confirm, type the project short name '%s' and press Enter: ", shortName)

	// Read user input with context cancellation support
	inputChan := make(chan string, 1)
	errChan := make(chan error, 1)

	go func() {
		reader := bufio.NewReader(a.input)
		input, err := reader.ReadString('\n')
		if err != nil {
			errChan <- err
			return
		}
		inputChan <- strings.TrimSpace(input)
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-errChan:
		return false, fmt.Errorf("failed to read input: %w", err)
	case input := <-inputChan:
		if input == shortName {
			fmt.Fprintln(a.output, "✓ Confirmed. Proceeding with task deletion...")
			return true, nil
		}
		fmt.Fprintf(a.output, "✗ Input '%s' does not match project short name '%s'. Operation cancelled.\n", input, shortName)
		return false, nil
	}
}

// Verify InteractiveApprover implements the Approver interface at compile time
var _ pbs.Approver = (*InteractiveApprover)(nil)
