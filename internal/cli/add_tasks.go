package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/internal/services"
	"github.com/pybossa/pbs/pkg/pbs"
)

var addTasksCmd = &cobra.Command{
	Use:   "add-tasks",
	Short: "Add tasks to the project from a data file",
	Long: `Create one task per record of a JSON, CSV, Excel, PO or properties file.

The format is taken from --tasks-type or, when omitted, from the file
extension (json, csv, xlsx/xlsm/xltx/xltm, po, properties). When a record
has a non-empty "info" field it becomes the task info; otherwise the whole
record does.

Calls are paced with the server's rate-limit headers: when 10 or fewer calls
remain, pbs waits until the limit resets.

Examples:
  pbs add-tasks --tasks-file tasks.csv
  pbs add-tasks --tasks-file photos.json --redundancy 5 --priority 0.8
  pbs add-tasks --tasks-file strings.po --tasks-type po`,
	Args: NoArgs,
	RunE: runAddTasks,
}

type addTasksFlagValues struct {
	tasksFile  string
	tasksType  string
	priority   float64
	redundancy int
}

var addTasksFlags addTasksFlagValues

func init() {
	rootCmd.AddCommand(addTasksCmd)

	f := addTasksCmd.Flags()
	f.StringVar(&addTasksFlags.tasksFile, "tasks-file", "", "Data file with one task per record (required)")
	f.StringVar(&addTasksFlags.tasksType, "tasks-type", "", "Data format: json, csv, xlsx, po or properties (default: from extension)")
	f.Float64Var(&addTasksFlags.priority, "priority", 0, "Task priority, between 0 and 1")
	f.IntVar(&addTasksFlags.redundancy, "redundancy", pbs.DefaultRedundancy, "Number of answers requested per task")
}

func resetAddTasksFlags() {
	addTasksFlags = addTasksFlagValues{redundancy: pbs.DefaultRedundancy}
}

func runAddTasks(cmd *cobra.Command, args []string) error {
	if addTasksFlags.tasksFile == "" {
		return fmt.Errorf("%w: --tasks-file is required", pbs.ErrUsage)
	}
	if addTasksFlags.priority < 0 || addTasksFlags.priority > 1 {
		return fmt.Errorf("%w: --priority must be between 0 and 1", pbs.ErrUsage)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	ref, err := s.projectRef()
	if err != nil {
		return err
	}

	msg, err := s.submitter(cmd.ErrOrStderr()).AddTasks(commandContext(cmd), services.AddTasksRequest{
		Project:    ref,
		File:       addTasksFlags.tasksFile,
		Type:       addTasksFlags.tasksType,
		Priority:   addTasksFlags.priority,
		Redundancy: addTasksFlags.redundancy,
	})
	if err != nil {
		return err
	}
	printResult(cmd, msg)
	return nil
}
