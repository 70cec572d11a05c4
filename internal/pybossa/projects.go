package pybossa

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pybossa/pbs/pkg/pbs"
)

const projectPath = "/api/project"

// FindProjects looks up projects by short name. With all set the lookup
// covers every project on the server, not only the caller's own.
func (c *Client) FindProjects(ctx context.Context, shortName string, all bool) ([]pbs.Project, error) {
	query := url.Values{"short_name": {shortName}}
	if all {
		query.Set("all", "1")
	}

	var projects []pbs.Project
	if err := c.doJSON(ctx, "GET", projectPath, query, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, name, shortName, description string) (*pbs.Project, error) {
	body := pbs.Project{Name: name, ShortName: shortName, Description: description}

	var created pbs.Project
	if err := c.doJSON(ctx, "POST", projectPath, nil, body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProject sends the writable fields of project. The id only selects the resource.
func (c *Client) UpdateProject(ctx context.Context, project *pbs.Project) (*pbs.Project, error) {
	body := *project
	body.ID = 0

	var updated pbs.Project
	path := projectPath + "/" + strconv.Itoa(project.ID)
	if err := c.doJSON(ctx, "PUT", path, nil, body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
