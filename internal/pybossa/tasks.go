package pybossa

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pybossa/pbs/pkg/pbs"
)

func taskPath(id int) string {
	return pbs.TaskEndpoint + "/" + strconv.Itoa(id)
}

func (c *Client) CreateTask(ctx context.Context, task pbs.Task) (*pbs.Task, error) {
	task.ID = 0

	var created pbs.Task
	if err := c.doJSON(ctx, "POST", pbs.TaskEndpoint, nil, task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateTask(ctx context.Context, task *pbs.Task) (*pbs.Task, error) {
	body := *task
	body.ID = 0

	var updated pbs.Task
	if err := c.doJSON(ctx, "PUT", taskPath(task.ID), nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask removes a task and its task runs.
func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	return c.doJSON(ctx, "DELETE", taskPath(taskID), nil, nil, nil)
}

// GetTasks returns one page of a project's tasks.
func (c *Client) GetTasks(ctx context.Context, projectID, limit, offset int) ([]pbs.Task, error) {
	query := url.Values{
		"project_id": {strconv.Itoa(projectID)},
		"limit":      {strconv.Itoa(limit)},
		"offset":     {strconv.Itoa(offset)},
	}

	var tasks []pbs.Task
	if err := c.doJSON(ctx, "GET", pbs.TaskEndpoint, query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindTasks returns the tasks of a project matching taskID (zero or one).
func (c *Client) FindTasks(ctx context.Context, projectID, taskID int) ([]pbs.Task, error) {
	query := url.Values{
		"project_id": {strconv.Itoa(projectID)},
		"id":         {strconv.Itoa(taskID)},
	}

	var tasks []pbs.Task
	if err := c.doJSON(ctx, "GET", pbs.TaskEndpoint, query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
