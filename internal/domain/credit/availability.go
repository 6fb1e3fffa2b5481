package credit

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LimitSource tells which rule produced a customer's credit limit
type LimitSource string

const (
	LimitSourceRiskTier       LimitSource = "RISK_TIER"
	LimitSourceManualOverride LimitSource = "MANUAL_OVERRIDE"
	LimitSourceCustomCap      LimitSource = "CUSTOM_CAP"
)

// Availability is the credit a customer can still take
type Availability struct {
	CustomerID                uuid.UUID       `json:"customer_id"`
	Limit                     decimal.Decimal `json:"limit"`
	LimitSource               LimitSource     `json:"limit_source"`
	CurrentOutstandingBalance decimal.Decimal `json:"current_outstanding_balance"`
	Available                 decimal.Decimal `json:"available"`
}

// ResolveLimit picks the effective limit. Overrides only ever raise the tier limit;
// they are considered in order tier, manual override, custom cap and a later
// source wins a tie.
func ResolveLimit(tierLimit decimal.Decimal, manualOverride, customCap *decimal.Decimal) (decimal.Decimal, LimitSource) {
	limit, source := tierLimit, LimitSourceRiskTier
	if manualOverride != nil && manualOverride.GreaterThanOrEqual(limit) {
		limit, source = *manualOverride, LimitSourceManualOverride
	}
	if customCap != nil && customCap.GreaterThanOrEqual(limit) {
		limit, source = *customCap, LimitSourceCustomCap
	}
	return limit, source
}

// NewAvailability computes availability from a limit and the outstanding balance.
// Available never goes below zero.
func NewAvailability(customerID uuid.UUID, limit decimal.Decimal, source LimitSource, outstanding decimal.Decimal) *Availability {
	available := limit.Sub(outstanding)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return &Availability{
		CustomerID:                customerID,
		Limit:                     limit,
		LimitSource:               source,
		CurrentOutstandingBalance: outstanding,
		Available:                 available,
	}
}
