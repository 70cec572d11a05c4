package cli

import (
	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/internal/ui"
	"github.com/pybossa/pbs/pkg/pbs"
)

var deleteTasksCmd = &cobra.Command{
	Use:   "delete-tasks",
	Short: "Delete one task, or every task of the project",
	Long: `Delete a task and its task runs. Without --task-id every task of the
project is deleted; you are asked to type the project short name first
unless --force is given.

Examples:
  pbs delete-tasks --task-id 1234
  pbs delete-tasks
  pbs delete-tasks --force    # CI: countdown instead of a prompt`,
	Args: NoArgs,
	RunE: runDeleteTasks,
}

type deleteTasksFlagValues struct {
	taskID int
	force  bool
}

var deleteTasksFlags deleteTasksFlagValues

// newApprover selects the confirmation used before deleting all tasks.
var newApprover = func(force, verbose bool) pbs.Approver {
	if force {
		return ui.NewForcedApprover(verbose)
	}
	return ui.NewInteractiveApprover(verbose)
}

func init() {
	rootCmd.AddCommand(deleteTasksCmd)

	f := deleteTasksCmd.Flags()
	f.IntVar(&deleteTasksFlags.taskID, "task-id", 0, "Task to delete (default: all tasks)")
	f.BoolVar(&deleteTasksFlags.force, "force", false,
		"Skip the confirmation prompt when deleting all tasks\n"+
			"A short countdown is shown instead")
}

func resetDeleteTasksFlags() {
	deleteTasksFlags = deleteTasksFlagValues{}
}

func runDeleteTasks(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	ref, err := s.projectRef()
	if err != nil {
		return err
	}

	svc := s.projectService(newApprover(deleteTasksFlags.force, s.verbose))
	msg, err := svc.DeleteTasks(commandContext(cmd), ref, deleteTasksFlags.taskID)
	if err != nil {
		return err
	}
	printResult(cmd, msg)
	return nil
}
