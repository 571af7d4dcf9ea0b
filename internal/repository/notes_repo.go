package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"factoryfloor/internal/domain"
)

// NotesRepository owns the per project completion records in the montaza
// store. Rows are created on first write.
type NotesRepository struct {
	db *gorm.DB
}

func NewNotesRepository(db *gorm.DB) *NotesRepository {
	return &NotesRepository{db: db}
}

// Find returns the record of a project or nil when none was written yet.
func (r *NotesRepository) Find(ctx context.Context, projectID string) (*domain.ProjectNotes, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	var n domain.ProjectNotes
	err := r.db.WithContext(ctx).Where("project_task_no = ?", projectID).Take(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find notes %s: %w", projectID, err)
	}
	return &n, nil
}

// ByProjects returns the records of the given projects keyed by project id.
// Projects without a record are absent from the map.
func (r *NotesRepository) ByProjects(ctx context.Context, projectIDs []string) (map[string]*domain.ProjectNotes, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	out := make(map[string]*domain.ProjectNotes, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}
	var rows []domain.ProjectNotes
	if err := r.db.WithContext(ctx).Where("project_task_no IN ?", projectIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	for i := range rows {
		out[rows[i].ProjectTaskNo] = &rows[i]
	}
	return out, nil
}

// SetFields writes the given columns, creating the record when absent.
func (r *NotesRepository) SetFields(ctx context.Context, projectID string, fields map[string]any) error {
	if err := ready(r.db, "montaza"); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return setFields(tx, projectID, fields)
	})
}

// CompleteTask stamps a task as completed at ts. When both tasks carry a
// completion stamp the project becomes ready for packaging.
func (r *NotesRepository) CompleteTask(ctx context.Context, projectID string, task domain.Task, ts string) error {
	if err := ready(r.db, "montaza"); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setFields(tx, projectID, map[string]any{task.CompletedAtColumn(): ts}); err != nil {
			return err
		}
		var n domain.ProjectNotes
		if err := tx.Where("project_task_no = ?", projectID).Take(&n).Error; err != nil {
			return fmt.Errorf("reload notes %s: %w", projectID, err)
		}
		if n.ElectrificationCompletedAt != nil && *n.ElectrificationCompletedAt != "" &&
			n.ControlCompletedAt != nil && *n.ControlCompletedAt != "" {
			return setFields(tx, projectID, map[string]any{"packaging_status": domain.StatusReady})
		}
		return nil
	})
}

// ResetTask clears the status and completion stamp of a task together with
// the packaging status.
func (r *NotesRepository) ResetTask(ctx context.Context, projectID string, task domain.Task) error {
	return r.SetFields(ctx, projectID, map[string]any{
		task.StatusColumn():      nil,
		task.CompletedAtColumn(): nil,
		"packaging_status":       nil,
	})
}

func ensureNotes(tx *gorm.DB, projectID string) error {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.ProjectNotes{ProjectTaskNo: projectID}).Error
	if err != nil {
		return fmt.Errorf("create notes %s: %w", projectID, err)
	}
	return nil
}

func setFields(tx *gorm.DB, projectID string, fields map[string]any) error {
	if err := ensureNotes(tx, projectID); err != nil {
		return err
	}
	err := tx.Model(&domain.ProjectNotes{}).
		Where("project_task_no = ?", projectID).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("update notes %s: %w", projectID, err)
	}
	return nil
}
