package services

import (
	"errors"
	"fmt"

	"github.com/pybossa/pbs/pkg/pbs"
)

const (
	msgUnknownFormat      = "Unknown format for the tasks file. Use json, csv, po or properties."
	msgConnectionError    = "Connection Error! The server %s is not responding"
	msgProjectCreated     = "Project: %s created!"
	msgProjectUpdated     = "Project %s updated!"
	msgTasksAdded         = "%d tasks added to project: %s"
	msgHelpingAdded       = "%d helping materials added to project: %s"
	msgTaskDeleted        = "Task.id = %d and its associated task_runs have been deleted"
	msgAllTasksDeleted    = "All tasks and task_runs have been deleted"
	msgTaskRedundancy     = "Task.id = %d redundancy has been updated to %d"
	msgAllTasksRedundancy = "All tasks redundancy have been updated"
)

// connectionFailure turns a connection failure into the non-fatal result
// message. Any other error is returned unchanged.
func connectionFailure(client pbs.Client, err error) (string, error) {
	if errors.Is(err, pbs.ErrConnectionFailed) {
		return fmt.Sprintf(msgConnectionError, client.Endpoint()), nil
	}
	return "", err
}
