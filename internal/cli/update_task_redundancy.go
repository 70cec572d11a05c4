package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/pkg/pbs"
)

var updateTaskRedundancyCmd = &cobra.Command{
	Use:   "update-task-redundancy",
	Short: "Change the number of answers requested per task",
	Long: `Set the redundancy (n_answers) of one task, or of every task of the
project when --task-id is omitted.

Examples:
  pbs update-task-redundancy --task-id 1234 --redundancy 5
  pbs update-task-redundancy --redundancy 10`,
	Args: NoArgs,
	RunE: runUpdateTaskRedundancy,
}

type updateRedundancyFlagValues struct {
	taskID     int
	redundancy int
}

var updateRedundancyFlags updateRedundancyFlagValues

func init() {
	rootCmd.AddCommand(updateTaskRedundancyCmd)

	f := updateTaskRedundancyCmd.Flags()
	f.IntVar(&updateRedundancyFlags.taskID, "task-id", 0, "Task to update (default: all tasks)")
	f.IntVar(&updateRedundancyFlags.redundancy, "redundancy", pbs.DefaultRedundancy, "Number of answers requested per task")
}

func resetUpdateRedundancyFlags() {
	updateRedundancyFlags = updateRedundancyFlagValues{redundancy: pbs.DefaultRedundancy}
}

func runUpdateTaskRedundancy(cmd *cobra.Command, args []string) error {
	if updateRedundancyFlags.redundancy < 1 {
		return fmt.Errorf("%w: --redundancy must be at least 1", pbs.ErrUsage)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	ref, err := s.projectRef()
	if err != nil {
		return err
	}

	svc := s.projectService(newApprover(false, s.verbose))
	msg, err := svc.UpdateTaskRedundancy(commandContext(cmd), ref, updateRedundancyFlags.taskID, updateRedundancyFlags.redundancy)
	if err != nil {
		return err
	}
	printResult(cmd, msg)
	return nil
}
