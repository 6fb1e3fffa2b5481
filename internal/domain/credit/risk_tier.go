package credit

import (
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RiskTier is a customer's credit risk classification
type RiskTier string

const (
	RiskTierVeryLow  RiskTier = "VERY_LOW"
	RiskTierLow      RiskTier = "LOW"
	RiskTierMedium   RiskTier = "MEDIUM"
	RiskTierHigh     RiskTier = "HIGH"
	RiskTierVeryHigh RiskTier = "VERY_HIGH"
)

// IsValid checks if the tier is known
func (t RiskTier) IsValid() bool {
	switch t {
	case RiskTierVeryLow, RiskTierLow, RiskTierMedium, RiskTierHigh, RiskTierVeryHigh:
		return true
	}
	return false
}

// RiskTierLimit maps a risk tier to the credit limit granted to customers in it
type RiskTierLimit struct {
	shared.BaseEntity
	Tier   RiskTier
	Limit  decimal.Decimal
	Active bool
}

// NewRiskTierLimit creates an active tier mapping
func NewRiskTierLimit(tier RiskTier, limit decimal.Decimal) (*RiskTierLimit, error) {
	if !tier.IsValid() {
		return nil, shared.NewValidationError("INVALID_RISK_TIER", "Risk tier is not valid")
	}
	if limit.IsNegative() {
		return nil, shared.NewValidationError("INVALID_LIMIT", "Limit cannot be negative")
	}
	return &RiskTierLimit{
		BaseEntity: shared.NewBaseEntity(),
		Tier:       tier,
		Limit:      limit,
		Active:     true,
	}, nil
}
