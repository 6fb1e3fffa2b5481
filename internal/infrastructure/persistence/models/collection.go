package models

import (
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CollectionAlertModel is the persistence model for the collection Alert aggregate.
type CollectionAlertModel struct {
	AggregateModel
	CreditID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName      string                `gorm:"type:varchar(210)"`
	State             collection.AlertState `gorm:"type:varchar(20);not null;index:idx_alert_state_resolved,priority:1"`
	Resolved          bool                  `gorm:"not null;default:false;index:idx_alert_state_resolved,priority:2"`
	ResolvedAt        *time.Time
	PromiseDate       *time.Time       `gorm:"index"`
	PromiseAmount     *decimal.Decimal `gorm:"type:decimal(18,2)"`
	OutstandingAmount decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	AccruedFeeAmount  decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount       decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	DaysOverdue       int              `gorm:"not null;default:0"`
	AssignedAgentID   string           `gorm:"type:varchar(100);index"`
	AssignmentDate    *time.Time
	Observations      string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CollectionAlertModel) TableName() string {
	return "collection_alerts"
}

// ToDomain converts the persistence model to a domain Alert aggregate.
func (m *CollectionAlertModel) ToDomain() *collection.Alert {
	return &collection.Alert{
		BaseAggregateRoot: m.ToAggregateRoot(),
		CreditID:          m.CreditID,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		State:             m.State,
		Resolved:          m.Resolved,
		ResolvedAt:        m.ResolvedAt,
		PromiseDate:       m.PromiseDate,
		PromiseAmount:     m.PromiseAmount,
		OutstandingAmount: m.OutstandingAmount,
		AccruedFeeAmount:  m.AccruedFeeAmount,
		TotalAmount:       m.TotalAmount,
		DaysOverdue:       m.DaysOverdue,
		AssignedAgentID:   m.AssignedAgentID,
		AssignmentDate:    m.AssignmentDate,
		Observations:      m.Observations,
	}
}

// FromDomain populates the persistence model from a domain Alert aggregate.
func (m *CollectionAlertModel) FromDomain(a *collection.Alert) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.CreditID = a.CreditID
	m.CustomerID = a.CustomerID
	m.CustomerName = a.CustomerName
	m.State = a.State
	m.Resolved = a.Resolved
	m.ResolvedAt = a.ResolvedAt
	m.PromiseDate = a.PromiseDate
	m.PromiseAmount = a.PromiseAmount
	m.OutstandingAmount = a.OutstandingAmount
	m.AccruedFeeAmount = a.AccruedFeeAmount
	m.TotalAmount = a.TotalAmount
	m.DaysOverdue = a.DaysOverdue
	m.AssignedAgentID = a.AssignedAgentID
	m.AssignmentDate = a.AssignmentDate
	m.Observations = a.Observations
}

// CollectionAlertModelFromDomain creates a new persistence model from a domain Alert.
func CollectionAlertModelFromDomain(a *collection.Alert) *CollectionAlertModel {
	m := &CollectionAlertModel{}
	m.FromDomain(a)
	return m
}

// ContactHistoryModel is the persistence model for append-only contact history entries.
type ContactHistoryModel struct {
	BaseModel
	AlertID       uuid.UUID                `gorm:"type:uuid;not null;index:idx_contact_alert_at,priority:1"`
	AgentID       string                   `gorm:"type:varchar(100)"`
	ContactType   collection.ContactType   `gorm:"type:varchar(20);not null"`
	Result        collection.ContactResult `gorm:"type:varchar(30);not null"`
	PromiseDate   *time.Time
	PromiseAmount *decimal.Decimal `gorm:"type:decimal(18,2)"`
	AmountPaid    *decimal.Decimal `gorm:"type:decimal(18,2)"`
	Notes         string           `gorm:"type:text"`
	ContactedAt   time.Time        `gorm:"not null;index:idx_contact_alert_at,priority:2"`
}

// TableName returns the table name for GORM
func (ContactHistoryModel) TableName() string {
	return "collection_contact_history"
}

// ToDomain converts the persistence model to a domain ContactEntry.
func (m *ContactHistoryModel) ToDomain() *collection.ContactEntry {
	return &collection.ContactEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		AlertID:       m.AlertID,
		AgentID:       m.AgentID,
		ContactType:   m.ContactType,
		Result:        m.Result,
		PromiseDate:   m.PromiseDate,
		PromiseAmount: m.PromiseAmount,
		AmountPaid:    m.AmountPaid,
		Notes:         m.Notes,
		ContactedAt:   m.ContactedAt,
	}
}

// FromDomain populates the persistence model from a domain ContactEntry.
func (m *ContactHistoryModel) FromDomain(e *collection.ContactEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.AlertID = e.AlertID
	m.AgentID = e.AgentID
	m.ContactType = e.ContactType
	m.Result = e.Result
	m.PromiseDate = e.PromiseDate
	m.PromiseAmount = e.PromiseAmount
	m.AmountPaid = e.AmountPaid
	m.Notes = e.Notes
	m.ContactedAt = e.ContactedAt
}
