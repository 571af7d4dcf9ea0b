package floor

import "context"

// WorkerResolver names the most recent worker per project.
type WorkerResolver interface {
	LatestWorkers(ctx context.Context, projectIDs []string) map[string]string
}

// ProjectCatalog lists the projects known to the ERP.
type ProjectCatalog interface {
	DistinctProjects(ctx context.Context) ([]string, error)
}
