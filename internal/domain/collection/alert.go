package collection

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeAlert is the aggregate type of collection alerts
const AggregateTypeAlert = "CollectionAlert"

// NoPromiseDays is returned by DaysUntilDue when the alert carries no promise date
const NoPromiseDays = math.MaxInt32

// AlertState is the management state of a collection alert
type AlertState string

const (
	AlertStateInManagement AlertState = "EN_GESTION"
	AlertStatePromised     AlertState = "PROMESA_PAGO"
	AlertStateRegularized  AlertState = "REGULARIZADO"
)

// IsValid checks if the state is known
func (s AlertState) IsValid() bool {
	switch s {
	case AlertStateInManagement, AlertStatePromised, AlertStateRegularized:
		return true
	}
	return false
}

// IsTerminal returns true for states that admit no further transitions
func (s AlertState) IsTerminal() bool {
	return s == AlertStateRegularized
}

// Alert tracks collection work on an overdue credit.
// State machine: EN_GESTION -> PROMESA_PAGO -> (REGULARIZADO | EN_GESTION).
type Alert struct {
	shared.BaseAggregateRoot
	CreditID          uuid.UUID
	CustomerID        uuid.UUID
	CustomerName      string
	State             AlertState
	Resolved          bool
	ResolvedAt        *time.Time
	PromiseDate       *time.Time
	PromiseAmount     *decimal.Decimal
	OutstandingAmount decimal.Decimal
	AccruedFeeAmount  decimal.Decimal
	TotalAmount       decimal.Decimal
	DaysOverdue       int
	AssignedAgentID   string
	AssignmentDate    *time.Time
	Observations      string
}

// NewAlert opens an alert in EN_GESTION for an overdue credit
func NewAlert(creditID, customerID uuid.UUID, customerName string, outstanding, fee decimal.Decimal, daysOverdue int, now time.Time) (*Alert, error) {
	if creditID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CREDIT", "Credit ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if outstanding.IsNegative() || fee.IsNegative() {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Alert amounts cannot be negative")
	}

	alert := &Alert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CreditID:          creditID,
		CustomerID:        customerID,
		CustomerName:      customerName,
		State:             AlertStateInManagement,
		OutstandingAmount: outstanding,
		AccruedFeeAmount:  fee,
		TotalAmount:       outstanding.Add(fee),
		DaysOverdue:       daysOverdue,
	}
	alert.CreatedAt = now
	alert.UpdatedAt = now

	alert.AddDomainEvent(NewAlertOpenedEvent(alert))

	return alert, nil
}

// RegisterPromise records a promise to pay and moves the alert to PROMESA_PAGO.
// The registering agent is assigned when the alert has no agent yet.
func (a *Alert) RegisterPromise(agentID string, promiseDate time.Time, amount decimal.Decimal, now time.Time) error {
	if strings.TrimSpace(agentID) == "" {
		return shared.NewValidationError("INVALID_AGENT", "Agent ID cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewValidationError("INVALID_PROMISE_AMOUNT", "Promise amount must be positive")
	}
	promiseDate = shared.DateOf(promiseDate)
	if shared.DaysUntilDate(now, promiseDate) < 0 {
		return shared.NewValidationError("INVALID_PROMISE_DATE", "Promise date cannot be in the past")
	}
	if a.Resolved || a.State.IsTerminal() {
		return shared.NewInvalidStateError("ALERT_RESOLVED", "Alert is already resolved")
	}

	a.State = AlertStatePromised
	a.PromiseDate = &promiseDate
	a.PromiseAmount = &amount
	if a.AssignedAgentID == "" {
		a.AssignedAgentID = agentID
		a.AssignmentDate = &now
	}
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewPromiseRegisteredEvent(a, agentID))

	return nil
}

// MarkPromiseBroken returns a PROMESA_PAGO alert to EN_GESTION and appends an audit note
func (a *Alert) MarkPromiseBroken(agentID, notes string, now time.Time) error {
	if a.State != AlertStatePromised {
		return shared.NewInvalidStateError("NO_ACTIVE_PROMISE", fmt.Sprintf("Alert in %s state has no promise to break", a.State))
	}

	note := fmt.Sprintf("[%s] Promise broken (agent %s)", now.Format("2006-01-02 15:04"), agentID)
	if a.PromiseDate != nil && a.PromiseAmount != nil {
		note += fmt.Sprintf(": %s due %s", a.PromiseAmount.StringFixed(2), a.PromiseDate.Format("2006-01-02"))
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		note += ". " + notes
	}

	brokenDate, brokenAmount := a.PromiseDate, a.PromiseAmount
	a.State = AlertStateInManagement
	a.clearPromise()
	a.AppendObservation(note)
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewPromiseBrokenEvent(a, agentID, brokenDate, brokenAmount))

	return nil
}

// RegisterPayment applies a payment against the alert.
// A payment covering max(promise amount, total amount) regularizes the alert;
// anything less is partial: the outstanding amount drops by the payment while the
// accrued fee stays, and the alert goes back to EN_GESTION. The promise is cleared either way.
// It returns true when the alert was regularized.
func (a *Alert) RegisterPayment(amountPaid decimal.Decimal, now time.Time) (bool, error) {
	if !amountPaid.IsPositive() {
		return false, shared.NewValidationError("INVALID_PAYMENT_AMOUNT", "Payment amount must be positive")
	}
	if a.Resolved || a.State.IsTerminal() {
		return false, shared.NewInvalidStateError("ALERT_RESOLVED", "Alert is already resolved")
	}

	required := a.TotalAmount
	if a.PromiseAmount != nil && a.PromiseAmount.GreaterThan(required) {
		required = *a.PromiseAmount
	}

	full := amountPaid.GreaterThanOrEqual(required)
	if full {
		a.State = AlertStateRegularized
		a.Resolved = true
		a.ResolvedAt = &now
	} else {
		a.State = AlertStateInManagement
		a.OutstandingAmount = a.OutstandingAmount.Sub(amountPaid)
		if a.OutstandingAmount.IsNegative() {
			a.OutstandingAmount = decimal.Zero
		}
		a.TotalAmount = a.OutstandingAmount.Add(a.AccruedFeeAmount)
	}
	a.clearPromise()
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewPaymentRegisteredEvent(a, amountPaid, full))

	return full, nil
}

// RefreshAmounts updates the debt snapshot computed by the mora job. State is untouched.
func (a *Alert) RefreshAmounts(outstanding, fee decimal.Decimal, daysOverdue int, now time.Time) error {
	if a.Resolved {
		return shared.NewInvalidStateError("ALERT_RESOLVED", "Cannot refresh a resolved alert")
	}
	if outstanding.IsNegative() || fee.IsNegative() {
		return shared.NewValidationError("INVALID_AMOUNT", "Alert amounts cannot be negative")
	}

	a.OutstandingAmount = outstanding
	a.AccruedFeeAmount = fee
	a.TotalAmount = outstanding.Add(fee)
	a.DaysOverdue = daysOverdue
	a.UpdatedAt = now
	a.IncrementVersion()

	return nil
}

// AppendObservation adds a line to the free-text observations, keeping prior notes
func (a *Alert) AppendObservation(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if a.Observations == "" {
		a.Observations = note
		return
	}
	a.Observations += "\n" + note
}

func (a *Alert) clearPromise() {
	a.PromiseDate = nil
	a.PromiseAmount = nil
}

// HasPromise returns true if the alert is in PROMESA_PAGO with a promise date
func (a *Alert) HasPromise() bool {
	return a.State == AlertStatePromised && a.PromiseDate != nil
}

// IsApproachingDue reports whether the promise falls within the next leadDays days
func (a *Alert) IsApproachingDue(leadDays int, asOf time.Time) bool {
	if !a.HasPromise() {
		return false
	}
	days := shared.DaysBetween(asOf, *a.PromiseDate)
	return days >= 0 && days <= leadDays
}

// IsPromiseOverdue reports whether the promise date has passed
func (a *Alert) IsPromiseOverdue(asOf time.Time) bool {
	if !a.HasPromise() {
		return false
	}
	return shared.DaysBetween(*a.PromiseDate, asOf) > 0
}

// DaysUntilDue returns the days left until the promise date, negative once past,
// or NoPromiseDays when no promise date is set
func (a *Alert) DaysUntilDue(asOf time.Time) int {
	if a.PromiseDate == nil {
		return NoPromiseDays
	}
	return shared.DaysBetween(asOf, *a.PromiseDate)
}

// DaysPastTolerance returns how many days the promise is late beyond toleranceDays
func (a *Alert) DaysPastTolerance(toleranceDays int, asOf time.Time) int {
	if a.PromiseDate == nil {
		return 0
	}
	return shared.DaysBetween(shared.AddDays(*a.PromiseDate, toleranceDays), asOf)
}
