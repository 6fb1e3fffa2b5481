package persistence

import (
	"context"
	"errors"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/mora"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMoraConfigurationRepository implements mora.ConfigurationRepository using GORM
type GormMoraConfigurationRepository struct {
	db *gorm.DB
}

// NewGormMoraConfigurationRepository creates a new GormMoraConfigurationRepository
func NewGormMoraConfigurationRepository(db *gorm.DB) *GormMoraConfigurationRepository {
	return &GormMoraConfigurationRepository{db: db}
}

// FindActive returns the most recently updated active configuration
func (r *GormMoraConfigurationRepository) FindActive(ctx context.Context) (*mora.Configuration, error) {
	var model models.MoraConfigurationModel
	if err := conn(ctx, r.db).
		Where("active = ?", true).
		Order("updated_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a configuration. Activating one deactivates the others.
func (r *GormMoraConfigurationRepository) Save(ctx context.Context, cfg *mora.Configuration) error {
	var model models.MoraConfigurationModel
	model.FromDomain(cfg)
	return conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if cfg.Active {
			if err := tx.Model(&models.MoraConfigurationModel{}).
				Where("id <> ? AND active = ?", cfg.ID, true).
				Update("active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(&model).Error
	})
}
