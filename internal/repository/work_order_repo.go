package repository

import (
	"context"

	"gorm.io/gorm"

	"factoryfloor/internal/domain"
)

// WorkOrderRepository reads work orders and components from the main store.
type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// ProjectWorkOrders returns the work orders of the given projects that
// belong to workCenter.
func (r *WorkOrderRepository) ProjectWorkOrders(ctx context.Context, projectIDs []string, workCenter string) ([]domain.WorkOrder, error) {
	if err := ready(r.db, "main"); err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var out []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("project_task_no IN ? AND work_center = ?", projectIDs, workCenter).
		Find(&out).Error
	if err != nil {
		return nil, readFailed("main", err)
	}
	return out, nil
}

// AllProjectWorkOrders returns the work orders of the given projects in every
// work center.
func (r *WorkOrderRepository) AllProjectWorkOrders(ctx context.Context, projectIDs []string) ([]domain.WorkOrder, error) {
	if err := ready(r.db, "main"); err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var out []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("project_task_no IN ?", projectIDs).
		Find(&out).Error
	if err != nil {
		return nil, readFailed("main", err)
	}
	return out, nil
}

func (r *WorkOrderRepository) WorkOrdersForProject(ctx context.Context, projectID, workCenter string) ([]domain.WorkOrder, error) {
	if err := ready(r.db, "main"); err != nil {
		return nil, err
	}
	var out []domain.WorkOrder
	err := r.db.WithContext(ctx).
		Where("project_task_no = ? AND work_center = ?", projectID, workCenter).
		Order("work_order_no").
		Find(&out).Error
	if err != nil {
		return nil, readFailed("main", err)
	}
	return out, nil
}

// DistinctProjects lists every project id known to the main store, sorted.
func (r *WorkOrderRepository) DistinctProjects(ctx context.Context) ([]string, error) {
	if err := ready(r.db, "main"); err != nil {
		return nil, err
	}
	var out []string
	err := r.db.WithContext(ctx).
		Model(&domain.WorkOrder{}).
		Distinct("project_task_no").
		Where("project_task_no IS NOT NULL AND project_task_no <> ''").
		Order("project_task_no").
		Pluck("project_task_no", &out).Error
	if err != nil {
		return nil, readFailed("main", err)
	}
	return out, nil
}

// Components returns the components of a project booked on workCenter.
func (r *WorkOrderRepository) Components(ctx context.Context, projectID, workCenter string) ([]domain.Component, error) {
	if err := ready(r.db, "main"); err != nil {
		return nil, err
	}
	var out []domain.Component
	err := r.db.WithContext(ctx).
		Where("project_task_no = ? AND work_center = ?", projectID, workCenter).
		Find(&out).Error
	if err != nil {
		return nil, readFailed("main", err)
	}
	return out, nil
}

// Parts queries cover components of the other work centers: the ones the
// assembly center waits for.
const (
	missingCond = `project_task_no = ?
		AND (inventory <= 0 OR inventory IS NULL OR inventory = '')
		AND (remaining_quantity > 0 OR remaining_quantity IS NULL)
		AND work_center != ?`
	arrivedCond = `project_task_no = ?
		AND inventory > 0
		AND (remaining_quantity > 0 OR remaining_quantity IS NULL)
		AND work_center != ?`
)

func (r *WorkOrderRepository) MissingParts(ctx context.Context, projectID, workCenter string) ([]domain.MissingPart, error) {
	out := []domain.MissingPart{}
	err := r.raw(ctx, &out,
		`SELECT item_no, description FROM components WHERE `+missingCond+
			` GROUP BY item_no ORDER BY item_no`,
		projectID, workCenter)
	return out, err
}

func (r *WorkOrderRepository) ArrivedParts(ctx context.Context, projectID, workCenter string) ([]domain.ArrivedPart, error) {
	out := []domain.ArrivedPart{}
	err := r.raw(ctx, &out,
		`SELECT item_no, description AS part, sifra_regala AS location FROM components WHERE `+arrivedCond+
			` ORDER BY item_no`,
		projectID, workCenter)
	return out, err
}

func (r *WorkOrderRepository) DetailedMissingParts(ctx context.Context, projectID, workCenter string) ([]domain.DetailedPart, error) {
	return r.detailed(ctx, missingCond, projectID, workCenter)
}

func (r *WorkOrderRepository) DetailedArrivedParts(ctx context.Context, projectID, workCenter string) ([]domain.DetailedPart, error) {
	return r.detailed(ctx, arrivedCond, projectID, workCenter)
}

func (r *WorkOrderRepository) detailed(ctx context.Context, cond, projectID, workCenter string) ([]domain.DetailedPart, error) {
	out := []domain.DetailedPart{}
	err := r.raw(ctx, &out,
		`SELECT item_no, description, sifra_regala, remaining_quantity AS quantity_needed
		FROM components WHERE `+cond+`
		GROUP BY item_no, description, sifra_regala, remaining_quantity
		ORDER BY item_no`,
		projectID, workCenter)
	return out, err
}

func (r *WorkOrderRepository) raw(ctx context.Context, dest any, query string, args ...any) error {
	if err := ready(r.db, "main"); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error; err != nil {
		return readFailed("main", err)
	}
	return nil
}
