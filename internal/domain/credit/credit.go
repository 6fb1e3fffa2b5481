package credit

import (
	"fmt"
	"sort"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of a credit
type Status string

const (
	StatusRequested            Status = "REQUESTED"
	StatusApproved             Status = "APPROVED"
	StatusActive               Status = "ACTIVE"
	StatusPendingConfiguration Status = "PENDING_CONFIGURATION"
	StatusConfigured           Status = "CONFIGURED"
	StatusGenerated            Status = "GENERATED"
	StatusFinished             Status = "FINISHED"
	StatusCancelled            Status = "CANCELLED"
	StatusRejected             Status = "REJECTED"
)

// LiveStatuses returns the statuses whose remaining balance counts against a customer's limit
func LiveStatuses() []Status {
	return []Status{
		StatusRequested,
		StatusApproved,
		StatusActive,
		StatusPendingConfiguration,
		StatusConfigured,
		StatusGenerated,
	}
}

// IsLive returns true if the status belongs to LiveStatuses
func (s Status) IsLive() bool {
	for _, live := range LiveStatuses() {
		if s == live {
			return true
		}
	}
	return false
}

// IsValid checks if the status is a known credit Status
func (s Status) IsValid() bool {
	switch s {
	case StatusFinished, StatusCancelled, StatusRejected:
		return true
	}
	return s.IsLive()
}

// Credit is a consumer credit composed of ordered installments
type Credit struct {
	shared.BaseAggregateRoot
	Number           string
	CustomerID       uuid.UUID
	Status           Status
	Amount           decimal.Decimal
	RemainingBalance decimal.Decimal
	IsDeleted        bool
	Installments     []Installment
}

// NewCredit creates a credit in REQUESTED status
func NewCredit(number string, customerID uuid.UUID, amount decimal.Decimal) (*Credit, error) {
	if number == "" {
		return nil, shared.NewValidationError("INVALID_CREDIT_NUMBER", "Credit number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Credit amount must be positive")
	}

	return &Credit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		Status:            StatusRequested,
		Amount:            amount,
		RemainingBalance:  amount,
		Installments:      make([]Installment, 0),
	}, nil
}

// AddInstallment appends an installment keeping the collection ordered by number
func (c *Credit) AddInstallment(inst Installment) error {
	for _, existing := range c.Installments {
		if existing.Number == inst.Number {
			return shared.NewValidationError("DUPLICATE_INSTALLMENT", fmt.Sprintf("Installment %d already exists", inst.Number))
		}
	}
	inst.CreditID = c.ID
	c.Installments = append(c.Installments, inst)
	sort.SliceStable(c.Installments, func(i, j int) bool {
		return c.Installments[i].Number < c.Installments[j].Number
	})
	return nil
}

// PendingInstallments returns installments with status PENDING and no payment date, in order
func (c *Credit) PendingInstallments() []Installment {
	pending := make([]Installment, 0, len(c.Installments))
	for _, inst := range c.Installments {
		if inst.IsPending() {
			pending = append(pending, inst)
		}
	}
	return pending
}

// ApplyPayment spreads a payment over the pending installments in order, oldest first,
// and lowers the remaining balance. Any excess over the pending installments only
// reduces the balance. It returns the amount that went to installments.
func (c *Credit) ApplyPayment(amount decimal.Decimal, paidAt time.Time) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if !c.Status.IsLive() {
		return decimal.Zero, shared.NewInvalidStateError("INVALID_STATE", fmt.Sprintf("Cannot apply a payment to a credit in %s status", c.Status))
	}

	left := amount
	for i := range c.Installments {
		if !left.IsPositive() {
			break
		}
		inst := &c.Installments[i]
		if !inst.IsPending() {
			continue
		}
		part := decimal.Min(left, inst.Outstanding())
		if !part.IsPositive() {
			continue
		}
		if err := inst.RegisterPayment(part, paidAt); err != nil {
			return decimal.Zero, err
		}
		left = left.Sub(part)
	}

	c.RemainingBalance = c.RemainingBalance.Sub(amount)
	if c.RemainingBalance.IsNegative() {
		c.RemainingBalance = decimal.Zero
	}
	c.UpdatedAt = paidAt
	c.IncrementVersion()

	return amount.Sub(left), nil
}
