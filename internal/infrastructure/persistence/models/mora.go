package models

import (
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/mora"
	"github.com/shopspring/decimal"
)

// MoraConfigurationModel is the persistence model for late fee configuration.
// Rates are percentages; nullable columns mean "not configured".
type MoraConfigurationModel struct {
	AggregateModel
	Active             bool                 `gorm:"not null;default:false;index"`
	GracePeriodDays    int                  `gorm:"not null;default:0"`
	BaseRate           *decimal.Decimal     `gorm:"type:decimal(9,4)"`
	RateKind           mora.RateKind        `gorm:"type:varchar(10)"`
	TieringEnabled     bool                 `gorm:"not null;default:false"`
	FirstMonthRate     *decimal.Decimal     `gorm:"type:decimal(9,4)"`
	SecondMonthRate    *decimal.Decimal     `gorm:"type:decimal(9,4)"`
	ThirdMonthPlusRate *decimal.Decimal     `gorm:"type:decimal(9,4)"`
	CalculationBase    mora.CalculationBase `gorm:"type:varchar(30);not null;default:'PRINCIPAL'"`
	CapEnabled         bool                 `gorm:"not null;default:false"`
	CapKind            mora.CapKind         `gorm:"type:varchar(20)"`
	CapValue           *decimal.Decimal     `gorm:"type:decimal(18,4)"`
	MinimumFee         *decimal.Decimal     `gorm:"type:decimal(18,2)"`
}

// TableName returns the table name for GORM
func (MoraConfigurationModel) TableName() string {
	return "mora_configurations"
}

// ToDomain converts the persistence model to a domain Configuration.
func (m *MoraConfigurationModel) ToDomain() *mora.Configuration {
	return &mora.Configuration{
		BaseAggregateRoot:  m.ToAggregateRoot(),
		Active:             m.Active,
		GracePeriodDays:    m.GracePeriodDays,
		BaseRate:           m.BaseRate,
		RateKind:           m.RateKind,
		TieringEnabled:     m.TieringEnabled,
		FirstMonthRate:     m.FirstMonthRate,
		SecondMonthRate:    m.SecondMonthRate,
		ThirdMonthPlusRate: m.ThirdMonthPlusRate,
		CalculationBase:    m.CalculationBase,
		CapEnabled:         m.CapEnabled,
		CapKind:            m.CapKind,
		CapValue:           m.CapValue,
		MinimumFee:         m.MinimumFee,
	}
}

// FromDomain populates the persistence model from a domain Configuration.
func (m *MoraConfigurationModel) FromDomain(c *mora.Configuration) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Active = c.Active
	m.GracePeriodDays = c.GracePeriodDays
	m.BaseRate = c.BaseRate
	m.RateKind = c.RateKind
	m.TieringEnabled = c.TieringEnabled
	m.FirstMonthRate = c.FirstMonthRate
	m.SecondMonthRate = c.SecondMonthRate
	m.ThirdMonthPlusRate = c.ThirdMonthPlusRate
	m.CalculationBase = c.CalculationBase
	m.CapEnabled = c.CapEnabled
	m.CapKind = c.CapKind
	m.CapValue = c.CapValue
	m.MinimumFee = c.MinimumFee
}
