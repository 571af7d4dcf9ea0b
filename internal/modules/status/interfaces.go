package status

import (
	"context"

	"factoryfloor/internal/domain"
)

type WorkOrderRepository interface {
	ProjectWorkOrders(ctx context.Context, projectIDs []string, workCenter string) ([]domain.WorkOrder, error)
	AllProjectWorkOrders(ctx context.Context, projectIDs []string) ([]domain.WorkOrder, error)
	WorkOrdersForProject(ctx context.Context, projectID, workCenter string) ([]domain.WorkOrder, error)
}

// ManualCompletionRepository reads hand-set completion flags.
type ManualCompletionRepository interface {
	CompletedWorkOrders(ctx context.Context, projectIDs []string) ([]string, error)
}

// TimeClockRepository reads the time clock event log.
type TimeClockRepository interface {
	FinalizedRefs(ctx context.Context, refs []string) ([]string, error)
	LatestPerRef(ctx context.Context, refs []string) ([]domain.LatestEntry, error)
}
