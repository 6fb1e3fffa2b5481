package models

import (
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Code           string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	FirstName      string                 `gorm:"type:varchar(100);not null"`
	LastName       string                 `gorm:"type:varchar(100);not null"`
	DocumentNumber string                 `gorm:"type:varchar(20);not null;index"`
	Phone          string                 `gorm:"type:varchar(50)"`
	Email          string                 `gorm:"type:varchar(200)"`
	RiskTier       credit.RiskTier        `gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	ManualLimit    *decimal.Decimal       `gorm:"type:decimal(18,2)"`
	CustomCap      *decimal.Decimal       `gorm:"type:decimal(18,2)"`
	Status         partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	IsDeleted      bool                   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Code:              m.Code,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		DocumentNumber:    m.DocumentNumber,
		Phone:             m.Phone,
		Email:             m.Email,
		RiskTier:          m.RiskTier,
		ManualLimit:       m.ManualLimit,
		CustomCap:         m.CustomCap,
		Status:            m.Status,
		IsDeleted:         m.IsDeleted,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.DocumentNumber = c.DocumentNumber
	m.Phone = c.Phone
	m.Email = c.Email
	m.RiskTier = c.RiskTier
	m.ManualLimit = c.ManualLimit
	m.CustomCap = c.CustomCap
	m.Status = c.Status
	m.IsDeleted = c.IsDeleted
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
