package mora

import (
	"context"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RateKind tells whether the configured rate is per day or per month
type RateKind string

const (
	RateKindDaily   RateKind = "DAILY"
	RateKindMonthly RateKind = "MONTHLY"
)

// CalculationBase selects which installment amounts accrue late fees
type CalculationBase string

const (
	CalculationBasePrincipal             CalculationBase = "PRINCIPAL"
	CalculationBasePrincipalPlusInterest CalculationBase = "PRINCIPAL_PLUS_INTEREST"
)

// CapKind selects how the fee cap (tope) is expressed
type CapKind string

const (
	CapKindPercentage  CapKind = "PERCENTAGE"
	CapKindFixedAmount CapKind = "FIXED_AMOUNT"
)

// Configuration describes how late fees accrue.
// It is owned by the back office; the engine only reads it.
type Configuration struct {
	shared.BaseAggregateRoot
	Active             bool
	GracePeriodDays    int
	BaseRate           *decimal.Decimal
	RateKind           RateKind
	TieringEnabled     bool
	FirstMonthRate     *decimal.Decimal
	SecondMonthRate    *decimal.Decimal
	ThirdMonthPlusRate *decimal.Decimal
	CalculationBase    CalculationBase
	CapEnabled         bool
	CapKind            CapKind
	CapValue           *decimal.Decimal
	MinimumFee         *decimal.Decimal
}

// IsValid reports whether fees can be computed with this configuration.
// A rate kind is required; without tiering the base rate must be positive,
// with tiering at least one tier rate or the base rate must be present.
func (c *Configuration) IsValid() bool {
	if c == nil || c.RateKind == "" {
		return false
	}
	if !c.TieringEnabled {
		return c.BaseRate != nil && c.BaseRate.IsPositive()
	}
	return FirstPresent(c.FirstMonthRate, c.SecondMonthRate, c.ThirdMonthPlusRate, c.BaseRate) != nil
}

// NominalRate returns the percentage rate that applies after effectiveDays of delay
func (c *Configuration) NominalRate(effectiveDays int) decimal.Decimal {
	var rate *decimal.Decimal
	switch {
	case !c.TieringEnabled:
		rate = c.BaseRate
	case effectiveDays <= 30:
		rate = FirstPresent(c.FirstMonthRate, c.BaseRate)
	case effectiveDays <= 60:
		rate = FirstPresent(c.SecondMonthRate, c.FirstMonthRate, c.BaseRate)
	default:
		rate = FirstPresent(c.ThirdMonthPlusRate, c.SecondMonthRate, c.FirstMonthRate, c.BaseRate)
	}
	if rate == nil {
		return decimal.Zero
	}
	return *rate
}

// DailyRate converts a nominal percentage into a daily multiplier.
// Monthly rates are spread over 30 days; anything but DAILY is treated as monthly.
func (c *Configuration) DailyRate(nominal decimal.Decimal) decimal.Decimal {
	if nominal.IsZero() {
		return decimal.Zero
	}
	rate := nominal.Div(hundred)
	if c.RateKind == RateKindDaily {
		return rate
	}
	return rate.Div(daysPerMonth)
}

// CapAmount resolves the fee cap for a calculation base, or nil when no cap applies
func (c *Configuration) CapAmount(base decimal.Decimal) *decimal.Decimal {
	if !c.CapEnabled || c.CapValue == nil {
		return nil
	}
	var amount decimal.Decimal
	switch c.CapKind {
	case CapKindPercentage:
		amount = base.Mul(c.CapValue.Div(hundred))
	case CapKindFixedAmount:
		amount = *c.CapValue
	default:
		return nil
	}
	return &amount
}

// ConfigurationRepository defines the interface for mora configuration persistence
type ConfigurationRepository interface {
	// FindActive returns the active configuration or shared.ErrNotFound
	FindActive(ctx context.Context) (*Configuration, error)

	// Save creates or updates a configuration
	Save(ctx context.Context, cfg *Configuration) error
}
