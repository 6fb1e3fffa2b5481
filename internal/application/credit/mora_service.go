package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/mora"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MoraService loads a credit and the active configuration and runs the fee engine
type MoraService struct {
	creditRepo credit.CreditRepository
	configRepo mora.ConfigurationRepository
	engine     *mora.Engine
	logger     *zap.Logger
}

// NewMoraService creates a new MoraService
func NewMoraService(
	creditRepo credit.CreditRepository,
	configRepo mora.ConfigurationRepository,
	engine *mora.Engine,
	logger *zap.Logger,
) *MoraService {
	return &MoraService{
		creditRepo: creditRepo,
		configRepo: configRepo,
		engine:     engine,
		logger:     logger,
	}
}

// ActiveConfiguration returns the active configuration, or nil when none is set up
func (s *MoraService) ActiveConfiguration(ctx context.Context) (*mora.Configuration, error) {
	cfg, err := s.configRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load mora configuration: %w", err)
	}
	return cfg, nil
}

// CalculateForCredit computes the late fees of a credit's pending installments.
// Without an active configuration the result is all zero.
func (s *MoraService) CalculateForCredit(ctx context.Context, creditID uuid.UUID, asOf *time.Time) (mora.Result, error) {
	c, err := s.creditRepo.FindByID(ctx, creditID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return mora.Result{}, shared.NotFoundf("CREDIT_NOT_FOUND", "Credit %s not found", creditID)
		}
		return mora.Result{}, fmt.Errorf("failed to load credit: %w", err)
	}

	cfg, err := s.ActiveConfiguration(ctx)
	if err != nil {
		return mora.Result{}, err
	}
	if !cfg.IsValid() {
		s.logger.Warn("no valid mora configuration, fees will be zero",
			zap.String("credit_id", creditID.String()),
		)
	}

	return s.engine.CalculateForCredit(c, cfg, asOf), nil
}
