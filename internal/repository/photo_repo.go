package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"factoryfloor/internal/domain"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

func (r *PhotoRepository) Create(ctx context.Context, p *domain.ProjectPhoto) error {
	if err := ready(r.db, "montaza"); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create photo: %w", err)
	}
	return nil
}

// ListByProject returns the photos of a project, newest first.
func (r *PhotoRepository) ListByProject(ctx context.Context, projectID string) ([]domain.ProjectPhoto, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	out := []domain.ProjectPhoto{}
	err := r.db.WithContext(ctx).
		Where("project_task_no = ?", projectID).
		Order("uploaded_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return out, nil
}

// Delete removes the photo row and reports whether one existed.
func (r *PhotoRepository) Delete(ctx context.Context, projectID, filename string) (bool, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return false, err
	}
	tx := r.db.WithContext(ctx).
		Where("project_task_no = ? AND filename = ?", projectID, filename).
		Delete(&domain.ProjectPhoto{})
	if tx.Error != nil {
		return false, fmt.Errorf("delete photo: %w", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

// Stats returns photo count and newest upload per project. Projects without
// photos are absent from the map.
func (r *PhotoRepository) Stats(ctx context.Context, projectIDs []string) (map[string]domain.PhotoStats, error) {
	if err := ready(r.db, "montaza"); err != nil {
		return nil, err
	}
	out := make(map[string]domain.PhotoStats, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}
	var rows []domain.PhotoStats
	err := r.db.WithContext(ctx).
		Model(&domain.ProjectPhoto{}).
		Select("project_task_no, COUNT(id) AS photo_count, MAX(uploaded_at) AS last_photo_upload").
		Where("project_task_no IN ?", projectIDs).
		Group("project_task_no").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("photo stats: %w", err)
	}
	for _, s := range rows {
		out[s.ProjectTaskNo] = s
	}
	return out, nil
}
