package credit

import (
	"context"
	"errors"
	"fmt"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/partner"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AvailabilityService computes how much credit a customer can still take
type AvailabilityService struct {
	customerRepo partner.CustomerRepository
	tierRepo     credit.RiskTierLimitRepository
	creditRepo   credit.CreditRepository
	logger       *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(
	customerRepo partner.CustomerRepository,
	tierRepo credit.RiskTierLimitRepository,
	creditRepo credit.CreditRepository,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		customerRepo: customerRepo,
		tierRepo:     tierRepo,
		creditRepo:   creditRepo,
		logger:       logger,
	}
}

// LimitForRiskTier returns the limit of the active mapping for tier.
// A missing mapping is a not-found error; there is no default limit.
func (s *AvailabilityService) LimitForRiskTier(ctx context.Context, tier credit.RiskTier) (decimal.Decimal, error) {
	mapping, err := s.tierRepo.FindActiveByTier(ctx, tier)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, shared.NotFoundf("RISK_TIER_LIMIT_NOT_FOUND", "No active credit limit configured for risk tier %s", tier)
		}
		return decimal.Zero, fmt.Errorf("failed to load risk tier limit: %w", err)
	}
	return mapping.Limit, nil
}

// OutstandingBalance sums the remaining balance of the customer's live credits
func (s *AvailabilityService) OutstandingBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	total, err := s.creditRepo.SumRemainingBalance(ctx, customerID, credit.LiveStatuses())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum outstanding balance: %w", err)
	}
	return total, nil
}

// ComputeAvailability resolves the customer's limit and what is left of it
func (s *AvailabilityService) ComputeAvailability(ctx context.Context, customerID uuid.UUID) (*credit.Availability, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "credit_availability", "compute")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrCustomerID, customerID.String())

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = shared.NotFoundf("CUSTOMER_NOT_FOUND", "Customer %s not found", customerID)
		} else {
			err = fmt.Errorf("failed to load customer: %w", err)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	tierLimit, err := s.LimitForRiskTier(ctx, customer.RiskTier)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	outstanding, err := s.OutstandingBalance(ctx, customerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	limit, source := credit.ResolveLimit(tierLimit, customer.ManualLimit, customer.CustomCap)
	availability := credit.NewAvailability(customerID, limit, source, outstanding)

	telemetry.SetAttributes(span,
		"limit", limit.String(),
		"limit_source", string(source),
		"available", availability.Available.String(),
	)
	s.logger.Debug("credit availability computed",
		zap.String("customer_id", customerID.String()),
		zap.String("risk_tier", string(customer.RiskTier)),
		zap.String("limit", limit.String()),
		zap.String("limit_source", string(source)),
		zap.String("outstanding", outstanding.String()),
	)

	return availability, nil
}
