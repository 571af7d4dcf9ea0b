package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"factoryfloor/internal/domain"
)

// DniStatusRepository stores the manual completion flags of work orders.
type DniStatusRepository struct {
	db *gorm.DB
}

func NewDniStatusRepository(db *gorm.DB) *DniStatusRepository {
	return &DniStatusRepository{db: db}
}

// Save upserts the flag and stamps the project's last DNI update in the
// same transaction.
func (r *DniStatusRepository) Save(ctx context.Context, s domain.DniStatus, ts string) error {
	if err := ready(r.db, "montaza"); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_order_no"}},
			DoUpdates: clause.AssignmentColumns([]string{"project_task_no", "description", "is_completed"}),
		}).Create(&s).Error
		if err != nil {
			return fmt.Errorf("save dni status %s: %w", s.WorkOrderNo, err)
		}
		return setFields(tx, s.ProjectTaskNo, map[string]any{"last_dni_updated_at": ts})
	})
}

// CompletedWorkOrders returns the work orders of the given projects that
// were marked completed by hand.
func (r *DniStatusRepository) CompletedWorkOrders(ctx context.Context, projectIDs []string) ([]string, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var out []string
	err := r.db.WithContext(ctx).
		Model(&domain.DniStatus{}).
		Where("project_task_no IN ? AND is_completed = ?", projectIDs, true).
		Pluck("work_order_no", &out).Error
	if err != nil {
		return nil, fmt.Errorf("list completed work orders: %w", err)
	}
	return out, nil
}
