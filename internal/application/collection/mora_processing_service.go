package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/mora"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/partner"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProcessingSummary reports what a mora processing run did
type ProcessingSummary struct {
	CalculationDate time.Time       `json:"calculation_date"`
	CreditsScanned  int             `json:"credits_scanned"`
	AlertsCreated   int             `json:"alerts_created"`
	AlertsUpdated   int             `json:"alerts_updated"`
	TotalFee        decimal.Decimal `json:"total_fee"`
	Failures        int             `json:"failures"`
}

// MoraProcessingService computes late fees for every overdue credit and keeps
// one open collection alert per credit in sync with the result
type MoraProcessingService struct {
	creditRepo   credit.CreditRepository
	configRepo   mora.ConfigurationRepository
	alertRepo    collection.AlertRepository
	customerRepo partner.CustomerRepository
	engine       *mora.Engine
	publisher    shared.EventPublisher
	clock        shared.Clock
	metrics      *telemetry.CollectionMetrics
	pageSize     int
	logger       *zap.Logger
}

// MoraProcessingConfig holds the collaborators of MoraProcessingService
type MoraProcessingConfig struct {
	CreditRepo   credit.CreditRepository
	ConfigRepo   mora.ConfigurationRepository
	AlertRepo    collection.AlertRepository
	CustomerRepo partner.CustomerRepository
	Engine       *mora.Engine
	Publisher    shared.EventPublisher
	Clock        shared.Clock
	Metrics      *telemetry.CollectionMetrics
	PageSize     int
	Logger       *zap.Logger
}

// NewMoraProcessingService creates a new MoraProcessingService
func NewMoraProcessingService(cfg MoraProcessingConfig) *MoraProcessingService {
	if cfg.Clock == nil {
		cfg.Clock = shared.SystemClock{}
	}
	if cfg.Engine == nil {
		cfg.Engine = mora.NewEngine(cfg.Clock)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &MoraProcessingService{
		creditRepo:   cfg.CreditRepo,
		configRepo:   cfg.ConfigRepo,
		alertRepo:    cfg.AlertRepo,
		customerRepo: cfg.CustomerRepo,
		engine:       cfg.Engine,
		publisher:    cfg.Publisher,
		clock:        cfg.Clock,
		metrics:      cfg.Metrics,
		pageSize:     cfg.PageSize,
		logger:       cfg.Logger,
	}
}

// Run processes all live credits with installments overdue as of asOf (today when nil).
// A failing credit is logged and counted; it never aborts the run.
func (s *MoraProcessingService) Run(ctx context.Context, asOf *time.Time) (*ProcessingSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "mora_processing", "run")
	defer span.End()

	started := time.Now()
	date := shared.AsOfOrToday(s.clock, asOf)
	summary := &ProcessingSummary{CalculationDate: date, TotalFee: decimal.Zero}
	telemetry.SetAttribute(span, telemetry.SpanAttrAsOf, date.Format("2006-01-02"))

	cfg, err := s.configRepo.FindActive(ctx)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load mora configuration: %w", err)
	}
	if !cfg.IsValid() {
		s.logger.Warn("no valid mora configuration, skipping processing", zap.Time("as_of", date))
		return summary, nil
	}

	dueBefore := shared.AddDays(date, -cfg.GracePeriodDays)
	filter := shared.Filter{Page: 1, PageSize: s.pageSize, OrderBy: "id", OrderDir: "asc"}
	for {
		if err := ctx.Err(); err != nil {
			telemetry.RecordError(span, err)
			return summary, err
		}

		credits, err := s.creditRepo.FindWithOverdueInstallments(ctx, dueBefore, filter)
		if err != nil {
			telemetry.RecordError(span, err)
			return summary, fmt.Errorf("failed to list overdue credits: %w", err)
		}

		for i := range credits {
			summary.CreditsScanned++
			if err := s.processCredit(ctx, &credits[i], cfg, date, summary); err != nil {
				summary.Failures++
				s.logger.Error("failed to process credit",
					zap.String("credit_id", credits[i].ID.String()),
					zap.String("credit_number", credits[i].Number),
					zap.Error(err),
				)
			}
		}

		if len(credits) < filter.PageSize {
			break
		}
		filter.Page++
	}

	s.metrics.RecordMoraRun(ctx, telemetry.MoraRunStats{
		CreditsScanned: summary.CreditsScanned,
		AlertsCreated:  summary.AlertsCreated,
		AlertsUpdated:  summary.AlertsUpdated,
		Failures:       summary.Failures,
		TotalFee:       summary.TotalFee,
		Duration:       time.Since(started),
	})
	telemetry.SetAttributes(span,
		"credits_scanned", summary.CreditsScanned,
		"alerts_created", summary.AlertsCreated,
		"alerts_updated", summary.AlertsUpdated,
		"failures", summary.Failures,
	)
	s.logger.Info("mora processing finished",
		zap.Time("as_of", date),
		zap.Int("credits_scanned", summary.CreditsScanned),
		zap.Int("alerts_created", summary.AlertsCreated),
		zap.Int("alerts_updated", summary.AlertsUpdated),
		zap.String("total_fee", summary.TotalFee.String()),
		zap.Int("failures", summary.Failures),
		zap.Duration("duration", time.Since(started)),
	)

	return summary, nil
}

func (s *MoraProcessingService) processCredit(ctx context.Context, c *credit.Credit, cfg *mora.Configuration, date time.Time, summary *ProcessingSummary) error {
	result := s.engine.CalculateForCredit(c, cfg, &date)
	if result.TotalOverduePrincipal.IsZero() && result.WithFeeCount == 0 {
		return nil
	}
	now := s.clock.Now()

	alert, err := s.alertRepo.FindOpenByCredit(ctx, c.ID)
	switch {
	case err == nil:
		if err := alert.RefreshAmounts(result.TotalOverduePrincipal, result.TotalFee, result.MaxEffectiveDays(), now); err != nil {
			return err
		}
		if err := s.alertRepo.SaveWithLock(ctx, alert); err != nil {
			return err
		}
		summary.AlertsUpdated++
		summary.TotalFee = summary.TotalFee.Add(result.TotalFee)
		return nil
	case !errors.Is(err, shared.ErrNotFound):
		return fmt.Errorf("failed to load open alert: %w", err)
	}

	customerName := ""
	if customer, err := s.customerRepo.FindByID(ctx, c.CustomerID); err == nil {
		customerName = customer.FullName()
	} else if !errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("failed to load customer: %w", err)
	}

	alert, err = collection.NewAlert(c.ID, c.CustomerID, customerName, result.TotalOverduePrincipal, result.TotalFee, result.MaxEffectiveDays(), now)
	if err != nil {
		return err
	}
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	summary.AlertsCreated++
	summary.TotalFee = summary.TotalFee.Add(result.TotalFee)

	events := alert.GetDomainEvents()
	alert.ClearDomainEvents()
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish alert opened event", zap.String("alert_id", alert.ID.String()), zap.Error(err))
		}
	}
	return nil
}
