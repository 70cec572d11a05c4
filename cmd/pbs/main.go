package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/pybossa/pbs/internal/cli"
	"github.com/pybossa/pbs/pkg/pbs"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(pbs.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(pbs.ExitCodeForError(err))
	}
}
