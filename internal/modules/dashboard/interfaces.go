package dashboard

import (
	"context"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/modules/status"
)

type StatusService interface {
	Statuses(ctx context.Context, projectIDs []string) (map[string]status.ProjectStatus, error)
	LatestWorkers(ctx context.Context, projectIDs []string) map[string]string
}

type NotesRepository interface {
	ByProjects(ctx context.Context, projectIDs []string) (map[string]*domain.ProjectNotes, error)
}

type PhotoRepository interface {
	Stats(ctx context.Context, projectIDs []string) (map[string]domain.PhotoStats, error)
}
