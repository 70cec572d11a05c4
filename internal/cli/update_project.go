package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/pybossa/pbs/internal/services"
	"github.com/pybossa/pbs/internal/watch"
	"github.com/pybossa/pbs/pkg/pbs"
)

var updateProjectCmd = &cobra.Command{
	Use:   "update-project",
	Short: "Push the project file and templates to the server",
	Long: `Update the project's name, description, long description, task presenter,
results page and tutorial from local files.

The task presenter, tutorial and long description must exist. The results
page and the bundle are optional; a bundle (for example a webpack build) is
appended verbatim to the task presenter.

With --watch the update is repeated every time one of the files changes,
until Ctrl+C.

Examples:
  pbs update-project
  pbs update-project --task-presenter presenter.html --bundle dist/bundle.min.js
  pbs update-project --watch`,
	Args: NoArgs,
	RunE: runUpdateProject,
}

type updateProjectFlagValues struct {
	taskPresenter   string
	results         string
	tutorial        string
	longDescription string
	bundle          string
	watch           bool
}

var updateProjectFlags updateProjectFlagValues

func init() {
	rootCmd.AddCommand(updateProjectCmd)
	resetUpdateProjectFlags()

	f := updateProjectCmd.Flags()
	f.StringVar(&updateProjectFlags.taskPresenter, "task-presenter", "template.html", "Task presenter template")
	f.StringVar(&updateProjectFlags.results, "results", "results.html", "Results page template (optional)")
	f.StringVar(&updateProjectFlags.tutorial, "tutorial", "tutorial.html", "Tutorial template")
	f.StringVar(&updateProjectFlags.longDescription, "long-description", "long_description.md", "Long description (Markdown)")
	f.StringVar(&updateProjectFlags.bundle, "bundle", "bundle.min.js", "Pre-built script appended to the task presenter (optional)")
	f.BoolVar(&updateProjectFlags.watch, "watch", false, "Update again whenever one of the files changes")
}

func resetUpdateProjectFlags() {
	updateProjectFlags = updateProjectFlagValues{
		taskPresenter:   "template.html",
		results:         "results.html",
		tutorial:        "tutorial.html",
		longDescription: "long_description.md",
		bundle:          "bundle.min.js",
	}
}

func (f updateProjectFlagValues) templates() services.ProjectTemplates {
	return services.ProjectTemplates{
		TaskPresenter:   f.taskPresenter,
		Results:         f.results,
		Tutorial:        f.tutorial,
		LongDescription: f.longDescription,
		Bundle:          f.bundle,
	}
}

func runUpdateProject(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	svc := s.projectService(newApprover(false, s.verbose))
	templates := updateProjectFlags.templates()

	update := func(ctx context.Context) error {
		desc, err := s.descriptor()
		if err != nil {
			return err
		}
		msg, err := svc.UpdateProject(ctx, *desc, globalFlags.all, templates)
		if err != nil {
			return err
		}
		printResult(cmd, msg)
		return nil
	}

	ctx := commandContext(cmd)
	if !updateProjectFlags.watch {
		return update(ctx)
	}

	w, err := watch.New([]string{
		globalFlags.project,
		templates.TaskPresenter,
		templates.Results,
		templates.Tutorial,
		templates.LongDescription,
		templates.Bundle,
	}, pbs.DefaultWatchDebounce, s.logger)
	if err != nil {
		return err
	}

	s.logger.Info("Watching for changes. Press Ctrl+C to stop.")
	if err := w.WithInitialRun().Run(ctx, func(ctx context.Context) error {
		if err := update(ctx); err != nil {
			return errors.New(describeError(err))
		}
		return nil
	}); err != nil {
		return err
	}
	s.logger.Info("Stopped watching.")
	return nil
}
