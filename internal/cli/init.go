package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/internal/logging"
	"github.com/pybossa/pbs/internal/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init [target_path]",
	Short: "Create a starter project directory",
	Long: `Write a project.json, task presenter, results page, tutorial and long
description into the target directory (default: current directory).

The target directory must be empty or non-existent.

Examples:
  pbs init                           # Current directory
  pbs init ./flickr --name "Flickr Person Finder"
  pbs init ./photos --template image --short-name photos

Available templates:
  basic - A question and free-text answer
  image - Shows task.info.url_m and asks a yes/no question

Use 'pbs init --list' to see all available templates.`,
	Args: OptionalTargetPath,
	RunE: runInit,
}

type initFlagValues struct {
	name      string
	shortName string
	template  string
	list      bool
}

var initFlags initFlagValues

func init() {
	rootCmd.AddCommand(initCmd)

	f := initCmd.Flags()
	f.StringVar(&initFlags.name, "name", "", "Project name (default: target directory name)")
	f.StringVar(&initFlags.shortName, "short-name", "", "Project short name (default: derived from the name)")
	f.StringVarP(&initFlags.template, "template", "t", scaffold.DefaultTemplate, "Template to use (basic, image)")
	f.BoolVar(&initFlags.list, "list", false, "List available templates")
}

func resetInitFlags() {
	initFlags = initFlagValues{template: scaffold.DefaultTemplate}
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()

	if initFlags.list {
		templates, err := scaffold.ListTemplates()
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		for _, t := range templates {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	}

	targetPath := "."
	if len(args) == 1 {
		targetPath = args[0]
	}

	name := initFlags.name
	if name == "" {
		name = filepath.Base(targetPath)
		if name == "." || name == ".." {
			cwd, err := os.Getwd()
			if err == nil {
				name = filepath.Base(cwd)
			} else {
				name = "project"
			}
		}
	}

	verbose := getVerboseFlag(cmd)
	scaffolder := scaffold.NewScaffolder(filesystem.NewOSFileSystem(), logging.NewConsoleLogger(verbose))
	written, err := scaffolder.CreateProject(scaffold.Options{
		Name:       name,
		ShortName:  initFlags.shortName,
		Template:   initFlags.template,
		TargetPath: targetPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Fprintf(out, "\n✓ Project initialized successfully using template '%s'\n\n", initFlags.template)
	fmt.Fprintln(out, "Created structure:")
	fmt.Fprint(out, scaffold.BuildFileTree(targetPath, written))

	fmt.Fprintln(out, "\nNext steps:")
	if targetPath != "." {
		fmt.Fprintf(out, "  cd %s\n", targetPath)
	}
	fmt.Fprintln(out, "  pbs --credentials default create-project")
	fmt.Fprintln(out, "  pbs update-project --watch")
	return nil
}
