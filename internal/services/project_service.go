package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pybossa/pbs/internal/files/filesystem"
	"github.com/pybossa/pbs/internal/ratelimit"
	"github.com/pybossa/pbs/pkg/pbs"
)

// ProjectTemplates names the local files pushed by UpdateProject.
// TaskPresenter, Tutorial and LongDescription must exist. Results and Bundle
// are skipped when empty or missing; Bundle is appended verbatim to the
// presenter.
type ProjectTemplates struct {
	TaskPresenter   string
	Results         string
	Tutorial        string
	LongDescription string
	Bundle          string
}

// ProjectService implements project creation and maintenance.
// Thread-Safety: NOT safe for concurrent use.
type ProjectService struct {
	client   pbs.Client
	fs       filesystem.FileSystemProvider
	approver pbs.Approver
	pacer    *ratelimit.Pacer
	logger   pbs.Logger
}

// NewProjectService creates a ProjectService. Panics on nil dependencies.
func NewProjectService(
	client pbs.Client,
	fsProvider filesystem.FileSystemProvider,
	approver pbs.Approver,
	pacer *ratelimit.Pacer,
	logger pbs.Logger,
) *ProjectService {
	if client == nil {
		panic("client cannot be nil")
	}
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if pacer == nil {
		panic("pacer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ProjectService{
		client:   client,
		fs:       fsProvider,
		approver: approver,
		pacer:    pacer,
		logger:   logger,
	}
}

// CreateProject creates the project described by desc.
func (s *ProjectService) CreateProject(ctx context.Context, desc pbs.ProjectDescriptor) (string, error) {
	if _, err := s.client.CreateProject(ctx, desc.Name, desc.ShortName, desc.Description); err != nil {
		return connectionFailure(s.client, err)
	}
	return fmt.Sprintf(msgProjectCreated, desc.ShortName), nil
}

// UpdateProject pushes the descriptor fields and the template files to the
// project named by desc.ShortName.
func (s *ProjectService) UpdateProject(ctx context.Context, desc pbs.ProjectDescriptor, all bool, templates ProjectTemplates) (string, error) {
	msg, err := s.updateProject(ctx, desc, all, templates)
	if err != nil {
		return connectionFailure(s.client, err)
	}
	return msg, nil
}

func (s *ProjectService) updateProject(ctx context.Context, desc pbs.ProjectDescriptor, all bool, templates ProjectTemplates) (string, error) {
	presenter, err := s.readRequired(templates.TaskPresenter)
	if err != nil {
		return "", err
	}
	tutorial, err := s.readRequired(templates.Tutorial)
	if err != nil {
		return "", err
	}
	longDescription, err := s.readRequired(templates.LongDescription)
	if err != nil {
		return "", err
	}
	results, err := s.readOptional(templates.Results)
	if err != nil {
		return "", err
	}
	bundle, err := s.readOptional(templates.Bundle)
	if err != nil {
		return "", err
	}

	project, err := FindProjectByShortName(ctx, s.client, ProjectRef{ShortName: desc.ShortName, All: all})
	if err != nil {
		return "", err
	}

	project.Name = desc.Name
	project.ShortName = desc.ShortName
	project.Description = desc.Description
	project.LongDescription = longDescription
	if project.Info == nil {
		project.Info = map[string]any{}
	}
	project.Info["task_presenter"] = presenter + bundle
	project.Info["tutorial"] = tutorial
	if templates.Results != "" && results != "" {
		project.Info["results"] = results
	}

	if _, err := s.client.UpdateProject(ctx, project); err != nil {
		return "", err
	}
	return fmt.Sprintf(msgProjectUpdated, project.ShortName), nil
}

func (s *ProjectService) readRequired(path string) (string, error) {
	content, err := s.fs.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

func (s *ProjectService) readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	content, err := s.fs.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Verbose("Skipping %s: file not found", path)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(content), nil
}

// DeleteTasks deletes one task (taskID > 0) or, after approval, every task
// of the project together with its task runs.
func (s *ProjectService) DeleteTasks(ctx context.Context, ref ProjectRef, taskID int) (string, error) {
	msg, err := s.deleteTasks(ctx, ref, taskID)
	if err != nil {
		return connectionFailure(s.client, err)
	}
	return msg, nil
}

func (s *ProjectService) deleteTasks(ctx context.Context, ref ProjectRef, taskID int) (string, error) {
	project, err := FindProjectByShortName(ctx, s.client, ref)
	if err != nil {
		return "", err
	}

	if taskID > 0 {
		if err := s.client.DeleteTask(ctx, taskID); err != nil {
			return "", err
		}
		return fmt.Sprintf(msgTaskDeleted, taskID), nil
	}

	approved, err := s.approver.RequestApproval(ctx, project.ShortName)
	if err != nil {
		return "", fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return "", pbs.ErrApprovalDenied
	}

	count, err := s.deleteAll(ctx, project.ID)
	if err != nil {
		return "", err
	}
	s.logger.Verbose("Deleted %d tasks from project %s", count, project.ShortName)
	return msgAllTasksDeleted, nil
}

// deleteAll drains the project's tasks page by page. Deleted ids are
// remembered so a page that still lists them is skipped rather than
// deleted twice; the loop ends at the first empty page.
func (s *ProjectService) deleteAll(ctx context.Context, projectID int) (int, error) {
	deleted := make(map[int]struct{})
	offset := 0
	for {
		page, err := s.client.GetTasks(ctx, projectID, pbs.DeletePageSize, offset)
		if err != nil {
			return len(deleted), err
		}
		if len(page) == 0 {
			return len(deleted), nil
		}

		progressed := false
		for _, task := range page {
			if _, done := deleted[task.ID]; done {
				continue
			}
			if err := s.client.DeleteTask(ctx, task.ID); err != nil {
				return len(deleted), err
			}
			deleted[task.ID] = struct{}{}
			progressed = true
		}
		if !progressed {
			offset += pbs.DeletePageSize
		}
	}
}

// UpdateTaskRedundancy sets n_answers on one task (taskID > 0) or on every
// task of the project.
func (s *ProjectService) UpdateTaskRedundancy(ctx context.Context, ref ProjectRef, taskID, redundancy int) (string, error) {
	msg, err := s.updateTaskRedundancy(ctx, ref, taskID, redundancy)
	if err != nil {
		return connectionFailure(s.client, err)
	}
	return msg, nil
}

func (s *ProjectService) updateTaskRedundancy(ctx context.Context, ref ProjectRef, taskID, redundancy int) (string, error) {
	if redundancy <= 0 {
		redundancy = pbs.DefaultRedundancy
	}

	project, err := FindProjectByShortName(ctx, s.client, ref)
	if err != nil {
		return "", err
	}

	if taskID > 0 {
		tasks, err := s.client.FindTasks(ctx, project.ID, taskID)
		if err != nil {
			return "", err
		}
		if len(tasks) == 0 {
			return "", &pbs.APIError{Kind: pbs.ErrTaskNotFound, Action: "GET", Target: "task", Payload: []any{}}
		}
		task := tasks[0]
		task.NAnswers = redundancy
		if _, err := s.client.UpdateTask(ctx, &task); err != nil {
			return "", err
		}
		return fmt.Sprintf(msgTaskRedundancy, taskID, redundancy), nil
	}

	offset := 0
	for {
		page, err := s.client.GetTasks(ctx, project.ID, pbs.UpdatePageSize, offset)
		if err != nil {
			return "", err
		}
		if len(page) == 0 {
			break
		}
		for i := range page {
			if err := s.pacer.Wait(ctx, pbs.TaskEndpoint); err != nil {
				return "", err
			}
			page[i].NAnswers = redundancy
			if _, err := s.client.UpdateTask(ctx, &page[i]); err != nil {
				return "", err
			}
		}
		offset += len(page)
	}
	return msgAllTasksRedundancy, nil
}
