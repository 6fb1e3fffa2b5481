package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCreditRepository implements credit.CreditRepository using GORM
type GormCreditRepository struct {
	db *gorm.DB
}

// NewGormCreditRepository creates a new GormCreditRepository
func NewGormCreditRepository(db *gorm.DB) *GormCreditRepository {
	return &GormCreditRepository{db: db}
}

func preloadInstallments(db *gorm.DB) *gorm.DB {
	return db.Order("number ASC")
}

// FindByID finds a credit with its installments
func (r *GormCreditRepository) FindByID(ctx context.Context, id uuid.UUID) (*credit.Credit, error) {
	var model models.CreditModel
	if err := conn(ctx, r.db).
		Preload("Installments", preloadInstallments).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindWithOverdueInstallments pages through live, non-deleted credits with at least
// one pending unpaid installment due before dueBefore
func (r *GormCreditRepository) FindWithOverdueInstallments(ctx context.Context, dueBefore time.Time, filter shared.Filter) ([]credit.Credit, error) {
	overdue := conn(ctx, r.db).
		Model(&models.InstallmentModel{}).
		Select("credit_id").
		Where("status = ? AND payment_date IS NULL AND due_date < ?", credit.InstallmentStatusPending, dueBefore)

	query := conn(ctx, r.db).
		Model(&models.CreditModel{}).
		Where("is_deleted = ? AND status IN ? AND id IN (?)", false, credit.LiveStatuses(), overdue).
		Preload("Installments", preloadInstallments)

	var creditModels []models.CreditModel
	if err := applyFilter(query, filter, CreditSortFields, "id").Find(&creditModels).Error; err != nil {
		return nil, err
	}

	credits := make([]credit.Credit, len(creditModels))
	for i := range creditModels {
		credits[i] = *creditModels[i].ToDomain()
	}
	return credits, nil
}

// SumRemainingBalance sums the positive remaining balance of a customer's
// non-deleted credits in the given statuses
func (r *GormCreditRepository) SumRemainingBalance(ctx context.Context, customerID uuid.UUID, statuses []credit.Status) (decimal.Decimal, error) {
	if len(statuses) == 0 {
		return decimal.Zero, nil
	}
	var result struct {
		Total decimal.Decimal
	}
	if err := conn(ctx, r.db).
		Model(&models.CreditModel{}).
		Select("COALESCE(SUM(remaining_balance), 0) as total").
		Where("customer_id = ? AND is_deleted = ? AND remaining_balance > 0 AND status IN ?", customerID, false, statuses).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Save creates or updates a credit and replaces its installments
func (r *GormCreditRepository) Save(ctx context.Context, c *credit.Credit) error {
	model := models.CreditModelFromDomain(c)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Installments").Save(model).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, len(model.Installments))
		for i := range model.Installments {
			keep[i] = model.Installments[i].ID
		}
		stale := tx.Where("credit_id = ?", c.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&models.InstallmentModel{}).Error; err != nil {
			return err
		}

		for i := range model.Installments {
			if err := tx.Save(&model.Installments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GormRiskTierLimitRepository implements credit.RiskTierLimitRepository using GORM
type GormRiskTierLimitRepository struct {
	db *gorm.DB
}

// NewGormRiskTierLimitRepository creates a new GormRiskTierLimitRepository
func NewGormRiskTierLimitRepository(db *gorm.DB) *GormRiskTierLimitRepository {
	return &GormRiskTierLimitRepository{db: db}
}

// FindActiveByTier returns the active mapping for a tier
func (r *GormRiskTierLimitRepository) FindActiveByTier(ctx context.Context, tier credit.RiskTier) (*credit.RiskTierLimit, error) {
	var model models.RiskTierLimitModel
	if err := conn(ctx, r.db).
		Where("tier = ? AND active = ?", tier, true).
		Order("updated_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a mapping
func (r *GormRiskTierLimitRepository) Save(ctx context.Context, limit *credit.RiskTierLimit) error {
	var model models.RiskTierLimitModel
	model.FromDomain(limit)
	return conn(ctx, r.db).Save(&model).Error
}
