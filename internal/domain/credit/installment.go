package credit

import (
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InstallmentStatus represents the status of a credit installment (cuota)
type InstallmentStatus string

const (
	InstallmentStatusPending   InstallmentStatus = "PENDING"
	InstallmentStatusPaid      InstallmentStatus = "PAID"
	InstallmentStatusOverdue   InstallmentStatus = "OVERDUE"
	InstallmentStatusCancelled InstallmentStatus = "CANCELLED"
)

// IsValid checks if the status is a known InstallmentStatus
func (s InstallmentStatus) IsValid() bool {
	switch s {
	case InstallmentStatusPending, InstallmentStatusPaid, InstallmentStatusOverdue, InstallmentStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of InstallmentStatus
func (s InstallmentStatus) String() string {
	return string(s)
}

// Installment is a single installment of an amortizing credit.
// It belongs to a Credit and is read-only for fee calculations.
type Installment struct {
	shared.BaseEntity
	CreditID        uuid.UUID
	Number          int
	DueDate         time.Time
	PrincipalAmount decimal.Decimal
	InterestAmount  decimal.Decimal
	PaidAmount      decimal.Decimal
	PaymentDate     *time.Time
	Status          InstallmentStatus
}

// NewInstallment creates a pending installment
func NewInstallment(creditID uuid.UUID, number int, dueDate time.Time, principal, interest decimal.Decimal) (*Installment, error) {
	if number < 1 {
		return nil, shared.NewValidationError("INVALID_INSTALLMENT_NUMBER", "Installment number must be at least 1")
	}
	if principal.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRINCIPAL", "Principal amount cannot be negative")
	}
	if interest.IsNegative() {
		return nil, shared.NewValidationError("INVALID_INTEREST", "Interest amount cannot be negative")
	}

	return &Installment{
		BaseEntity:      shared.NewBaseEntity(),
		CreditID:        creditID,
		Number:          number,
		DueDate:         shared.DateOf(dueDate),
		PrincipalAmount: principal,
		InterestAmount:  interest,
		PaidAmount:      decimal.Zero,
		Status:          InstallmentStatusPending,
	}, nil
}

// IsPaid returns true when a payment date is recorded or the status says so
func (i *Installment) IsPaid() bool {
	return i.PaymentDate != nil || i.Status == InstallmentStatusPaid
}

// IsPending returns true when the installment is still awaiting payment
func (i *Installment) IsPending() bool {
	return i.Status == InstallmentStatusPending && i.PaymentDate == nil
}

// TotalAmount returns principal plus interest
func (i *Installment) TotalAmount() decimal.Decimal {
	return i.PrincipalAmount.Add(i.InterestAmount)
}

// Outstanding returns what is left to pay on the installment
func (i *Installment) Outstanding() decimal.Decimal {
	rest := i.TotalAmount().Sub(i.PaidAmount)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// RegisterPayment applies a payment, marking the installment paid once fully covered
func (i *Installment) RegisterPayment(amount decimal.Decimal, paidAt time.Time) error {
	if i.IsPaid() {
		return shared.NewInvalidStateError("INSTALLMENT_ALREADY_PAID", "Installment is already paid")
	}
	if i.Status == InstallmentStatusCancelled {
		return shared.NewInvalidStateError("INSTALLMENT_CANCELLED", "Cannot pay a cancelled installment")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	if i.PaidAmount.GreaterThanOrEqual(i.TotalAmount()) {
		date := shared.DateOf(paidAt)
		i.PaymentDate = &date
		i.Status = InstallmentStatusPaid
	}
	i.UpdatedAt = paidAt
	return nil
}
