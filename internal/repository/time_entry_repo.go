package repository

import (
	"context"

	"gorm.io/gorm"

	"factoryfloor/internal/domain"
)

// TimeEntryRepository reads the time clock events of the cas store.
type TimeEntryRepository struct {
	db *gorm.DB
}

func NewTimeEntryRepository(db *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{db: db}
}

// FinalizedRefs returns the work orders among refs that have at least one
// finalize event.
func (r *TimeEntryRepository) FinalizedRefs(ctx context.Context, refs []string) ([]string, error) {
	if err := ready(r.db, "cas"); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	var out []string
	err := r.db.WithContext(ctx).
		Model(&domain.TimeEntry{}).
		Distinct("ref_doc_no").
		Where("event_type = ? AND ref_doc_no IN ?", domain.EventFinalize, refs).
		Pluck("ref_doc_no", &out).Error
	if err != nil {
		return nil, readFailed("cas", err)
	}
	return out, nil
}

// LatestPerRef returns the newest event of every work order in refs.
func (r *TimeEntryRepository) LatestPerRef(ctx context.Context, refs []string) ([]domain.LatestEntry, error) {
	if err := ready(r.db, "cas"); err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, nil
	}
	// SQLite returns the bare columns of the row holding MAX().
	var out []domain.LatestEntry
	err := r.db.WithContext(ctx).
		Raw(`SELECT ref_doc_no, worker_name, MAX(event_datetime) AS max_ts
			FROM time_entries
			WHERE ref_doc_no IN ?
			GROUP BY ref_doc_no`, refs).
		Scan(&out).Error
	if err != nil {
		return nil, readFailed("cas", err)
	}
	return out, nil
}
