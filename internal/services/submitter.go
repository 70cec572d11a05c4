package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/pybossa/pbs/internal/files/loader"
	"github.com/pybossa/pbs/internal/ratelimit"
	"github.com/pybossa/pbs/pkg/pbs"
)

// AddTasksRequest describes a bulk task import.
type AddTasksRequest struct {
	Project    ProjectRef
	File       string
	Type       string // declared format; empty infers it from File
	Priority   float64
	Redundancy int
}

// AddHelpingMaterialsRequest describes a bulk helping-material import.
type AddHelpingMaterialsRequest struct {
	Project ProjectRef
	File    string
	Type    string
}

// Submitter loads data files and creates one remote record per row, pacing
// calls against the server's rate limit.
// Thread-Safety: NOT safe for concurrent use.
type Submitter struct {
	client   pbs.Client
	loader   *loader.Loader
	pacer    *ratelimit.Pacer
	logger   pbs.Logger
	progress pbs.Progress
}

// NewSubmitter creates a Submitter. Panics on nil dependencies.
func NewSubmitter(client pbs.Client, ldr *loader.Loader, pacer *ratelimit.Pacer, logger pbs.Logger) *Submitter {
	if client == nil {
		panic("client cannot be nil")
	}
	if ldr == nil {
		panic("loader cannot be nil")
	}
	if pacer == nil {
		panic("pacer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Submitter{
		client:   client,
		loader:   ldr,
		pacer:    pacer,
		logger:   logger,
		progress: pbs.NopProgress{},
	}
}

// WithProgress returns a copy of the Submitter that reports per-row progress.
func (s *Submitter) WithProgress(p pbs.Progress) *Submitter {
	clone := *s
	if p == nil {
		p = pbs.NopProgress{}
	}
	clone.progress = p
	return &clone
}

// AddTasks creates one task per row of req.File and returns
// "N tasks added to project: short_name". The first failing row aborts the
// import.
func (s *Submitter) AddTasks(ctx context.Context, req AddTasksRequest) (string, error) {
	msg, err := s.addTasks(ctx, req)
	if err != nil {
		return connectionFailure(s.client, err)
	}
	return msg, nil
}

func (s *Submitter) addTasks(ctx context.Context, req AddTasksRequest) (string, error) {
	project, rows, err := s.prepare(ctx, req.Project, req.File, req.Type)
	if err != nil {
		if errors.Is(err, pbs.ErrUnknownFormat) {
			return msgUnknownFormat, nil
		}
		return "", err
	}

	redundancy := req.Redundancy
	if redundancy <= 0 {
		redundancy = pbs.DefaultRedundancy
	}

	s.progress.Start("Adding tasks", len(rows))
	defer s.progress.Done()

	for i, row := range rows {
		if err := s.pacer.Wait(ctx, pbs.TaskEndpoint); err != nil {
			return "", err
		}
		task := pbs.Task{
			ProjectID: project.ID,
			Info:      CreateTaskInfo(row),
			NAnswers:  redundancy,
			Priority0: req.Priority,
		}
		if _, err := s.client.CreateTask(ctx, task); err != nil {
			return "", fmt.Errorf("row %d: %w", i+1, err)
		}
		s.progress.Advance()
	}

	s.logger.Verbose("Created %d tasks for project %d", len(rows), project.ID)
	return fmt.Sprintf(msgTasksAdded, len(rows), project.ShortName), nil
}

// AddHelpingMaterials creates one helping material per row of req.File.
// Rows naming a file_path are uploaded with the file attached, then updated
// so the server-generated info fields are kept next to the local ones.
func (s *Submitter) AddHelpingMaterials(ctx context.Context, req AddHelpingMaterialsRequest) (string, error) {
	msg, err := s.addHelpingMaterials(ctx, req)
	if err != nil {
		return connectionFailure(s.client, err)
	}
	return msg, nil
}

func (s *Submitter) addHelpingMaterials(ctx context.Context, req AddHelpingMaterialsRequest) (string, error) {
	project, rows, err := s.prepare(ctx, req.Project, req.File, req.Type)
	if err != nil {
		if errors.Is(err, pbs.ErrUnknownFormat) {
			return msgUnknownFormat, nil
		}
		return "", err
	}

	s.progress.Start("Adding helping materials", len(rows))
	defer s.progress.Done()

	for i, row := range rows {
		if err := s.pacer.Wait(ctx, pbs.HelpingMaterialEndpoint); err != nil {
			return "", err
		}
		if err := s.createHelpingMaterial(ctx, project.ID, row); err != nil {
			return "", fmt.Errorf("row %d: %w", i+1, err)
		}
		s.progress.Advance()
	}

	return fmt.Sprintf(msgHelpingAdded, len(rows), project.ShortName), nil
}

func (s *Submitter) createHelpingMaterial(ctx context.Context, projectID int, row loader.Row) error {
	info, filePath := CreateHelpingMaterialInfo(row)
	if filePath == "" {
		_, err := s.client.CreateHelpingMaterial(ctx, projectID, info, "")
		return err
	}

	created, err := s.client.CreateHelpingMaterial(ctx, projectID, info, filePath)
	if err != nil {
		return err
	}

	created.Info = mergeInfo(created.Info, info)
	_, err = s.client.UpdateHelpingMaterial(ctx, created)
	return err
}

// prepare resolves the project before touching the data file.
func (s *Submitter) prepare(ctx context.Context, ref ProjectRef, file, declared string) (*pbs.Project, []loader.Row, error) {
	project, err := FindProjectByShortName(ctx, s.client, ref)
	if err != nil {
		return nil, nil, err
	}

	rows, format, err := s.loader.LoadFile(file, declared)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Verbose("Loaded %d rows from %s (%s)", len(rows), file, format)
	return project, rows, nil
}

// mergeInfo overlays local on remote. Local keys win; a local payload that
// is not an object replaces the remote one.
func mergeInfo(remote, local any) any {
	localObj, ok := local.(map[string]any)
	if !ok {
		return local
	}
	remoteObj, _ := remote.(map[string]any)
	merged := copyMap(remoteObj)
	for k, v := range localObj {
		merged[k] = v
	}
	return merged
}
