package services

import (
	"context"

	"github.com/pybossa/pbs/pkg/pbs"
)

// ProjectRef names the project an operation works on.
type ProjectRef struct {
	ShortName string
	// All widens the lookup to every project on the server.
	All bool
}

// FindProjectByShortName resolves ref to a single project. An empty result
// is reported as pbs.ErrProjectNotFound; transport failures are returned
// untranslated.
func FindProjectByShortName(ctx context.Context, client pbs.Client, ref ProjectRef) (*pbs.Project, error) {
	projects, err := client.FindProjects(ctx, ref.ShortName, ref.All)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, &pbs.APIError{
			Kind:    pbs.ErrProjectNotFound,
			Action:  "GET",
			Target:  "project",
			Payload: []any{},
		}
	}
	return &projects[0], nil
}
