package credit

import (
	"context"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditRepository defines the interface for credit persistence
type CreditRepository interface {
	// FindByID finds a credit with its installments
	FindByID(ctx context.Context, id uuid.UUID) (*Credit, error)

	// FindWithOverdueInstallments pages through live credits that have at least one
	// pending installment due before the given date, installments preloaded
	FindWithOverdueInstallments(ctx context.Context, dueBefore time.Time, filter shared.Filter) ([]Credit, error)

	// SumRemainingBalance sums remaining_balance of non-deleted credits of a customer
	// whose status is in statuses and whose balance is positive
	SumRemainingBalance(ctx context.Context, customerID uuid.UUID, statuses []Status) (decimal.Decimal, error)

	// Save creates or updates a credit and its installments
	Save(ctx context.Context, credit *Credit) error
}

// RiskTierLimitRepository defines the interface for tier limit persistence
type RiskTierLimitRepository interface {
	// FindActiveByTier returns the active mapping for a tier or shared.ErrNotFound
	FindActiveByTier(ctx context.Context, tier RiskTier) (*RiskTierLimit, error)

	// Save creates or updates a mapping
	Save(ctx context.Context, limit *RiskTierLimit) error
}
