package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/pkg/pbs"
)

// NoArgs rejects positional arguments. Every pbs command except init is
// configured entirely through flags.
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf(`%w: unexpected argument %q

Usage: %s

Use '%s --help' to see the available flags.`, pbs.ErrUsage, args[0], cmd.UseLine(), cmd.CommandPath())
	}
	return nil
}

// OptionalTargetPath accepts at most one target directory argument.
func OptionalTargetPath(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: accepts at most 1 arg(s), received %d", pbs.ErrUsage, len(args))
	}
	return nil
}
