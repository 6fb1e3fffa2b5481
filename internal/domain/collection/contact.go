package collection

import (
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContactType is the channel used to reach the customer
type ContactType string

const (
	ContactTypeCall     ContactType = "CALL"
	ContactTypeWhatsApp ContactType = "WHATSAPP"
	ContactTypeEmail    ContactType = "EMAIL"
	ContactTypeVisit    ContactType = "VISIT"
	ContactTypeSystem   ContactType = "SYSTEM"
)

// IsValid checks if the contact type is known
func (t ContactType) IsValid() bool {
	switch t {
	case ContactTypeCall, ContactTypeWhatsApp, ContactTypeEmail, ContactTypeVisit, ContactTypeSystem:
		return true
	}
	return false
}

// ContactResult is the outcome recorded for a contact
type ContactResult string

const (
	ContactResultPromise       ContactResult = "PROMESA_PAGO"
	ContactResultPromiseBroken ContactResult = "PROMESA_INCUMPLIDA"
	ContactResultPaymentMade   ContactResult = "PAGO_REALIZADO"
)

// ContactEntry is an append-only record of a collections contact
type ContactEntry struct {
	shared.BaseEntity
	AlertID       uuid.UUID
	AgentID       string
	ContactType   ContactType
	Result        ContactResult
	PromiseDate   *time.Time
	PromiseAmount *decimal.Decimal
	AmountPaid    *decimal.Decimal
	Notes         string
	ContactedAt   time.Time
}

// NewContactEntry creates a history entry for an alert
func NewContactEntry(alertID uuid.UUID, agentID string, contactType ContactType, result ContactResult, notes string, at time.Time) (*ContactEntry, error) {
	if alertID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ALERT", "Alert ID cannot be empty")
	}
	if !contactType.IsValid() {
		return nil, shared.NewValidationError("INVALID_CONTACT_TYPE", "Invalid contact type")
	}

	entry := &ContactEntry{
		BaseEntity:  shared.NewBaseEntity(),
		AlertID:     alertID,
		AgentID:     agentID,
		ContactType: contactType,
		Result:      result,
		Notes:       notes,
		ContactedAt: at,
	}
	entry.CreatedAt = at
	entry.UpdatedAt = at
	return entry, nil
}

// WithPromise attaches the promised date and amount
func (e *ContactEntry) WithPromise(date time.Time, amount decimal.Decimal) *ContactEntry {
	d := shared.DateOf(date)
	e.PromiseDate = &d
	e.PromiseAmount = &amount
	return e
}

// WithPayment attaches the amount paid
func (e *ContactEntry) WithPayment(amount decimal.Decimal) *ContactEntry {
	e.AmountPaid = &amount
	return e
}
