package cli

import (
	"github.com/spf13/cobra"
)

var createProjectCmd = &cobra.Command{
	Use:   "create-project",
	Short: "Create the project described by the project file",
	Long: `Create a project on the PyBossa server using the name, short_name and
description of the project file (--project, default project.json).

Examples:
  pbs create-project
  pbs --project flickr/project.json --credentials crowdcrafting create-project`,
	Args: NoArgs,
	RunE: runCreateProject,
}

func init() {
	rootCmd.AddCommand(createProjectCmd)
}

func runCreateProject(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	desc, err := s.descriptor()
	if err != nil {
		return err
	}

	msg, err := s.projectService(newApprover(false, s.verbose)).CreateProject(commandContext(cmd), *desc)
	if err != nil {
		return err
	}
	printResult(cmd, msg)
	return nil
}
