package project

import (
	"context"

	"factoryfloor/internal/domain"
	"factoryfloor/internal/modules/floor"
	"factoryfloor/internal/modules/status"
)

// OwnershipChecker gates every mutation on the layout owner of a project.
type OwnershipChecker interface {
	CheckOwnership(ctx context.Context, actor domain.Actor, name string, policy floor.Policy) error
}

type NotesRepository interface {
	Find(ctx context.Context, projectID string) (*domain.ProjectNotes, error)
	SetFields(ctx context.Context, projectID string, fields map[string]any) error
	CompleteTask(ctx context.Context, projectID string, task domain.Task, ts string) error
	ResetTask(ctx context.Context, projectID string, task domain.Task) error
}

type DniStatusRepository interface {
	Save(ctx context.Context, s domain.DniStatus, ts string) error
}

type PhotoRepository interface {
	Create(ctx context.Context, p *domain.ProjectPhoto) error
	ListByProject(ctx context.Context, projectID string) ([]domain.ProjectPhoto, error)
	Delete(ctx context.Context, projectID, filename string) (bool, error)
}

// PartsRepository reads work orders and components from the ERP store.
type PartsRepository interface {
	WorkOrdersForProject(ctx context.Context, projectID, workCenter string) ([]domain.WorkOrder, error)
	Components(ctx context.Context, projectID, workCenter string) ([]domain.Component, error)
	MissingParts(ctx context.Context, projectID, workCenter string) ([]domain.MissingPart, error)
	ArrivedParts(ctx context.Context, projectID, workCenter string) ([]domain.ArrivedPart, error)
	DetailedMissingParts(ctx context.Context, projectID, workCenter string) ([]domain.DetailedPart, error)
	DetailedArrivedParts(ctx context.Context, projectID, workCenter string) ([]domain.DetailedPart, error)
}

type WorkOrderStatuses interface {
	WorkOrders(ctx context.Context, projectID string) ([]status.WorkOrderStatus, error)
}
