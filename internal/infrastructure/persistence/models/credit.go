package models

import (
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditModel is the persistence model for the Credit aggregate.
type CreditModel struct {
	AggregateModel
	Number           string             `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_credit_customer_status,priority:1"`
	Status           credit.Status      `gorm:"type:varchar(30);not null;index:idx_credit_customer_status,priority:2"`
	Amount           decimal.Decimal    `gorm:"type:decimal(18,2);not null"`
	RemainingBalance decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	IsDeleted        bool               `gorm:"not null;default:false"`
	Installments     []InstallmentModel `gorm:"foreignKey:CreditID"`
}

// TableName returns the table name for GORM
func (CreditModel) TableName() string {
	return "credits"
}

// ToDomain converts the persistence model to a domain Credit aggregate.
func (m *CreditModel) ToDomain() *credit.Credit {
	c := &credit.Credit{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Number:            m.Number,
		CustomerID:        m.CustomerID,
		Status:            m.Status,
		Amount:            m.Amount,
		RemainingBalance:  m.RemainingBalance,
		IsDeleted:         m.IsDeleted,
		Installments:      make([]credit.Installment, len(m.Installments)),
	}
	for i := range m.Installments {
		c.Installments[i] = *m.Installments[i].ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Credit aggregate.
func (m *CreditModel) FromDomain(c *credit.Credit) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Number = c.Number
	m.CustomerID = c.CustomerID
	m.Status = c.Status
	m.Amount = c.Amount
	m.RemainingBalance = c.RemainingBalance
	m.IsDeleted = c.IsDeleted
	m.Installments = make([]InstallmentModel, len(c.Installments))
	for i := range c.Installments {
		m.Installments[i].FromDomain(&c.Installments[i])
		m.Installments[i].CreditID = c.ID
	}
}

// CreditModelFromDomain creates a new persistence model from a domain Credit.
func CreditModelFromDomain(c *credit.Credit) *CreditModel {
	m := &CreditModel{}
	m.FromDomain(c)
	return m
}

// InstallmentModel is the persistence model for credit installments (cuotas).
type InstallmentModel struct {
	BaseModel
	CreditID        uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_installment_credit_number,priority:1"`
	Number          int                      `gorm:"not null;uniqueIndex:idx_installment_credit_number,priority:2"`
	DueDate         time.Time                `gorm:"not null;index"`
	PrincipalAmount decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	InterestAmount  decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PaidAmount      decimal.Decimal          `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentDate     *time.Time               `gorm:"index"`
	Status          credit.InstallmentStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment.
func (m *InstallmentModel) ToDomain() *credit.Installment {
	return &credit.Installment{
		BaseEntity:      m.BaseModel.ToDomain(),
		CreditID:        m.CreditID,
		Number:          m.Number,
		DueDate:         m.DueDate,
		PrincipalAmount: m.PrincipalAmount,
		InterestAmount:  m.InterestAmount,
		PaidAmount:      m.PaidAmount,
		PaymentDate:     m.PaymentDate,
		Status:          m.Status,
	}
}

// FromDomain populates the persistence model from a domain Installment.
func (m *InstallmentModel) FromDomain(i *credit.Installment) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.CreditID = i.CreditID
	m.Number = i.Number
	m.DueDate = i.DueDate
	m.PrincipalAmount = i.PrincipalAmount
	m.InterestAmount = i.InterestAmount
	m.PaidAmount = i.PaidAmount
	m.PaymentDate = i.PaymentDate
	m.Status = i.Status
}

// RiskTierLimitModel is the persistence model for risk tier to limit mappings.
type RiskTierLimitModel struct {
	BaseModel
	Tier   credit.RiskTier `gorm:"type:varchar(20);not null;index"`
	Limit  decimal.Decimal `gorm:"column:limit_amount;type:decimal(18,2);not null"`
	Active bool            `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (RiskTierLimitModel) TableName() string {
	return "risk_tier_limits"
}

// ToDomain converts the persistence model to a domain RiskTierLimit.
func (m *RiskTierLimitModel) ToDomain() *credit.RiskTierLimit {
	return &credit.RiskTierLimit{
		BaseEntity: m.BaseModel.ToDomain(),
		Tier:       m.Tier,
		Limit:      m.Limit,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain RiskTierLimit.
func (m *RiskTierLimitModel) FromDomain(l *credit.RiskTierLimit) {
	m.FromDomainBaseEntity(l.BaseEntity)
	m.Tier = l.Tier
	m.Limit = l.Limit
	m.Active = l.Active
}
