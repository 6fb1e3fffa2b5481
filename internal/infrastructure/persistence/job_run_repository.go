package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Job run statuses
const (
	JobRunStatusSucceeded = "SUCCEEDED"
	JobRunStatusFailed    = "FAILED"
)

// GormJobRunRepository persists the last run of each scheduled job
type GormJobRunRepository struct {
	db *gorm.DB
}

// NewGormJobRunRepository creates a new GormJobRunRepository
func NewGormJobRunRepository(db *gorm.DB) *GormJobRunRepository {
	return &GormJobRunRepository{db: db}
}

// LastRun returns when job last succeeded, or nil if it never did
func (r *GormJobRunRepository) LastRun(ctx context.Context, job string) (*time.Time, error) {
	var model models.JobRunModel
	if err := conn(ctx, r.db).First(&model, "job = ?", job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if model.LastRunAt.IsZero() {
		return nil, nil
	}
	return &model.LastRunAt, nil
}

// RecordRun upserts the outcome of a run. A failed run keeps the last
// successful timestamp so the job is retried on the next tick.
func (r *GormJobRunRepository) RecordRun(ctx context.Context, job string, at time.Time, runErr error) error {
	model := models.JobRunModel{
		Job:        job,
		LastRunAt:  at,
		LastStatus: JobRunStatusSucceeded,
		UpdatedAt:  time.Now(),
	}
	columns := []string{"last_run_at", "last_status", "last_error", "updated_at"}
	if runErr != nil {
		model.LastRunAt = time.Time{}
		model.LastStatus = JobRunStatusFailed
		model.LastError = runErr.Error()
		columns = columns[1:]
	}
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&model).Error
}
