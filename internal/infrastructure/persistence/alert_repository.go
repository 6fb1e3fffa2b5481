package persistence

import (
	"context"
	"errors"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAlertRepository implements collection.AlertRepository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*collection.Alert, error) {
	var model models.CollectionAlertModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByCredit finds the unresolved alert of a credit
func (r *GormAlertRepository) FindOpenByCredit(ctx context.Context, creditID uuid.UUID) (*collection.Alert, error) {
	var model models.CollectionAlertModel
	if err := conn(ctx, r.db).
		Where("credit_id = ? AND resolved = ?", creditID, false).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByState finds unresolved alerts in the given state
func (r *GormAlertRepository) FindByState(ctx context.Context, state collection.AlertState, filter shared.Filter) ([]collection.Alert, error) {
	var alertModels []models.CollectionAlertModel
	query := conn(ctx, r.db).
		Model(&models.CollectionAlertModel{}).
		Where("state = ? AND resolved = ?", state, false)
	if err := applyFilter(query, filter, AlertSortFields, "created_at").Find(&alertModels).Error; err != nil {
		return nil, err
	}

	alerts := make([]collection.Alert, len(alertModels))
	for i := range alertModels {
		alerts[i] = *alertModels[i].ToDomain()
	}
	return alerts, nil
}

// Save creates or updates an alert without a version check
func (r *GormAlertRepository) Save(ctx context.Context, alert *collection.Alert) error {
	return conn(ctx, r.db).Save(models.CollectionAlertModelFromDomain(alert)).Error
}

// SaveWithLock updates an alert only if the stored version is the one it was loaded with.
// Domain mutations bump the version once, so the stored row must hold Version-1.
func (r *GormAlertRepository) SaveWithLock(ctx context.Context, alert *collection.Alert) error {
	model := models.CollectionAlertModelFromDomain(alert)
	result := conn(ctx, r.db).
		Model(&models.CollectionAlertModel{}).
		Where("id = ? AND version = ?", alert.ID, alert.Version-1).
		Updates(map[string]any{
			"customer_name":      model.CustomerName,
			"state":              model.State,
			"resolved":           model.Resolved,
			"resolved_at":        model.ResolvedAt,
			"promise_date":       model.PromiseDate,
			"promise_amount":     model.PromiseAmount,
			"outstanding_amount": model.OutstandingAmount,
			"accrued_fee_amount": model.AccruedFeeAmount,
			"total_amount":       model.TotalAmount,
			"days_overdue":       model.DaysOverdue,
			"assigned_agent_id":  model.AssignedAgentID,
			"assignment_date":    model.AssignmentDate,
			"observations":       model.Observations,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// GormContactHistoryRepository implements collection.ContactHistoryRepository using GORM
type GormContactHistoryRepository struct {
	db *gorm.DB
}

// NewGormContactHistoryRepository creates a new GormContactHistoryRepository
func NewGormContactHistoryRepository(db *gorm.DB) *GormContactHistoryRepository {
	return &GormContactHistoryRepository{db: db}
}

// Append inserts a history entry
func (r *GormContactHistoryRepository) Append(ctx context.Context, entry *collection.ContactEntry) error {
	var model models.ContactHistoryModel
	model.FromDomain(entry)
	return conn(ctx, r.db).Create(&model).Error
}

// FindByAlert returns the entries of an alert, oldest first
func (r *GormContactHistoryRepository) FindByAlert(ctx context.Context, alertID uuid.UUID) ([]collection.ContactEntry, error) {
	var entryModels []models.ContactHistoryModel
	if err := conn(ctx, r.db).
		Where("alert_id = ?", alertID).
		Order("contacted_at ASC").
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]collection.ContactEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}
