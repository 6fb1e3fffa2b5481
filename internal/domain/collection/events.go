package collection

import (
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeAlertOpened       = "collection.alert_opened"
	EventTypePromiseRegistered = "collection.promise_registered"
	EventTypePromiseBroken     = "collection.promise_broken"
	EventTypePaymentRegistered = "collection.payment_registered"
	EventTypePromiseDueSoon    = "collection.promise_due_soon"
)

// AlertOpenedEvent is published when the mora job opens an alert for a credit
type AlertOpenedEvent struct {
	shared.BaseDomainEvent
	AlertID     uuid.UUID       `json:"alert_id"`
	CreditID    uuid.UUID       `json:"credit_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	DaysOverdue int             `json:"days_overdue"`
}

// NewAlertOpenedEvent creates a new AlertOpenedEvent
func NewAlertOpenedEvent(a *Alert) *AlertOpenedEvent {
	return &AlertOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAlertOpened, AggregateTypeAlert, a.ID, a.CreatedAt),
		AlertID:         a.ID,
		CreditID:        a.CreditID,
		CustomerID:      a.CustomerID,
		TotalAmount:     a.TotalAmount,
		DaysOverdue:     a.DaysOverdue,
	}
}

// PromiseRegisteredEvent is published when a customer promises to pay
type PromiseRegisteredEvent struct {
	shared.BaseDomainEvent
	AlertID       uuid.UUID       `json:"alert_id"`
	AgentID       string          `json:"agent_id"`
	PromiseDate   time.Time       `json:"promise_date"`
	PromiseAmount decimal.Decimal `json:"promise_amount"`
}

// NewPromiseRegisteredEvent creates a new PromiseRegisteredEvent
func NewPromiseRegisteredEvent(a *Alert, agentID string) *PromiseRegisteredEvent {
	return &PromiseRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromiseRegistered, AggregateTypeAlert, a.ID, a.UpdatedAt),
		AlertID:         a.ID,
		AgentID:         agentID,
		PromiseDate:     *a.PromiseDate,
		PromiseAmount:   *a.PromiseAmount,
	}
}

// PromiseBrokenEvent is published when a promise is marked as broken
type PromiseBrokenEvent struct {
	shared.BaseDomainEvent
	AlertID       uuid.UUID        `json:"alert_id"`
	AgentID       string           `json:"agent_id"`
	PromiseDate   *time.Time       `json:"promise_date,omitempty"`
	PromiseAmount *decimal.Decimal `json:"promise_amount,omitempty"`
}

// NewPromiseBrokenEvent creates a new PromiseBrokenEvent
func NewPromiseBrokenEvent(a *Alert, agentID string, date *time.Time, amount *decimal.Decimal) *PromiseBrokenEvent {
	return &PromiseBrokenEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromiseBroken, AggregateTypeAlert, a.ID, a.UpdatedAt),
		AlertID:         a.ID,
		AgentID:         agentID,
		PromiseDate:     date,
		PromiseAmount:   amount,
	}
}

// PaymentRegisteredEvent is published when a payment is applied to an alert
type PaymentRegisteredEvent struct {
	shared.BaseDomainEvent
	AlertID           uuid.UUID       `json:"alert_id"`
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	Regularized       bool            `json:"regularized"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
}

// NewPaymentRegisteredEvent creates a new PaymentRegisteredEvent
func NewPaymentRegisteredEvent(a *Alert, amountPaid decimal.Decimal, regularized bool) *PaymentRegisteredEvent {
	return &PaymentRegisteredEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypePaymentRegistered, AggregateTypeAlert, a.ID, a.UpdatedAt),
		AlertID:           a.ID,
		AmountPaid:        amountPaid,
		Regularized:       regularized,
		OutstandingAmount: a.OutstandingAmount,
	}
}

// PromiseDueSoonEvent is published by the reminder scan for promises within the lead window
type PromiseDueSoonEvent struct {
	shared.BaseDomainEvent
	AlertID         uuid.UUID       `json:"alert_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	AssignedAgentID string          `json:"assigned_agent_id"`
	PromiseDate     time.Time       `json:"promise_date"`
	PromiseAmount   decimal.Decimal `json:"promise_amount"`
	DaysUntilDue    int             `json:"days_until_due"`
}

// NewPromiseDueSoonEvent creates a new PromiseDueSoonEvent. The alert must hold a promise.
func NewPromiseDueSoonEvent(a *Alert, asOf time.Time) *PromiseDueSoonEvent {
	return &PromiseDueSoonEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePromiseDueSoon, AggregateTypeAlert, a.ID, asOf),
		AlertID:         a.ID,
		CustomerID:      a.CustomerID,
		CustomerName:    a.CustomerName,
		AssignedAgentID: a.AssignedAgentID,
		PromiseDate:     *a.PromiseDate,
		PromiseAmount:   *a.PromiseAmount,
		DaysUntilDue:    a.DaysUntilDue(asOf),
	}
}
