package collection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/credit"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/telemetry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const scanPageSize = 200

// RegisterPromiseRequest is the input of RegisterPromise
type RegisterPromiseRequest struct {
	AlertID       uuid.UUID              `json:"alert_id" validate:"required"`
	PromiseDate   time.Time              `json:"promise_date" validate:"required"`
	PromiseAmount decimal.Decimal        `json:"promise_amount" validate:"gt=0"`
	ContactType   collection.ContactType `json:"contact_type" validate:"omitempty,oneof=CALL WHATSAPP EMAIL VISIT SYSTEM"`
	Notes         string                 `json:"notes" validate:"max=2000"`
}

// PromiseReceipt describes a registered promise
type PromiseReceipt struct {
	AlertID         uuid.UUID             `json:"alert_id"`
	HistoryEntryID  uuid.UUID             `json:"history_entry_id"`
	State           collection.AlertState `json:"state"`
	PromiseDate     time.Time             `json:"promise_date"`
	PromiseAmount   decimal.Decimal       `json:"promise_amount"`
	AssignedAgentID string                `json:"assigned_agent_id"`
}

// OverduePromise is a promise that passed its date plus tolerance
type OverduePromise struct {
	AlertID         uuid.UUID       `json:"alert_id"`
	CreditID        uuid.UUID       `json:"credit_id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	AssignedAgentID string          `json:"assigned_agent_id"`
	PromiseDate     time.Time       `json:"promise_date"`
	PromiseAmount   decimal.Decimal `json:"promise_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DaysOverdue     int             `json:"days_overdue"`
}

// ContactHistoryItem is one entry of an alert's contact history
type ContactHistoryItem struct {
	ID            uuid.UUID                `json:"id"`
	AgentID       string                   `json:"agent_id"`
	ContactType   collection.ContactType   `json:"contact_type"`
	Result        collection.ContactResult `json:"result"`
	PromiseDate   *time.Time               `json:"promise_date,omitempty"`
	PromiseAmount *decimal.Decimal         `json:"promise_amount,omitempty"`
	AmountPaid    *decimal.Decimal         `json:"amount_paid,omitempty"`
	Notes         string                   `json:"notes,omitempty"`
	ContactedAt   time.Time                `json:"contacted_at"`
}

// PromiseTracker drives the promise-to-pay workflow of collection alerts
type PromiseTracker struct {
	alertRepo   collection.AlertRepository
	historyRepo collection.ContactHistoryRepository
	creditRepo  credit.CreditRepository
	txManager   shared.TransactionManager
	publisher   shared.EventPublisher
	clock       shared.Clock
	metrics     *telemetry.CollectionMetrics
	validate    *validator.Validate
	logger      *zap.Logger
}

// PromiseTrackerOption configures optional collaborators
type PromiseTrackerOption func(*PromiseTracker)

// WithEventPublisher publishes alert events after each committed change
func WithEventPublisher(publisher shared.EventPublisher) PromiseTrackerOption {
	return func(t *PromiseTracker) {
		t.publisher = publisher
	}
}

// WithClock overrides the system clock
func WithClock(clock shared.Clock) PromiseTrackerOption {
	return func(t *PromiseTracker) {
		t.clock = clock
	}
}

// WithMetrics records promise outcomes
func WithMetrics(metrics *telemetry.CollectionMetrics) PromiseTrackerOption {
	return func(t *PromiseTracker) {
		t.metrics = metrics
	}
}

// NewPromiseTracker creates a new PromiseTracker
func NewPromiseTracker(
	alertRepo collection.AlertRepository,
	historyRepo collection.ContactHistoryRepository,
	creditRepo credit.CreditRepository,
	txManager shared.TransactionManager,
	logger *zap.Logger,
	opts ...PromiseTrackerOption,
) *PromiseTracker {
	t := &PromiseTracker{
		alertRepo:   alertRepo,
		historyRepo: historyRepo,
		creditRepo:  creditRepo,
		txManager:   txManager,
		clock:       shared.SystemClock{},
		validate:    newValidator(),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RegisterPromise records a customer's promise to pay on an open alert.
// Bad input and business rule violations come back as a failed Result without
// touching storage; storage errors, including concurrency conflicts, come back as error.
func (t *PromiseTracker) RegisterPromise(ctx context.Context, req RegisterPromiseRequest, agentID string) (shared.Result[*PromiseReceipt], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection_promise", "register")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAlertID, req.AlertID.String(),
		telemetry.SpanAttrAgentID, agentID,
		telemetry.SpanAttrAmount, req.PromiseAmount.String(),
	)

	if strings.TrimSpace(agentID) == "" {
		return shared.Fail[*PromiseReceipt](shared.NewValidationError("INVALID_AGENT", "Agent ID cannot be empty")), nil
	}
	if err := t.validate.Struct(req); err != nil {
		return shared.Fail[*PromiseReceipt](validationError(err)), nil
	}
	now := t.clock.Now()
	if shared.DaysUntilDate(now, req.PromiseDate) < 0 {
		return shared.Fail[*PromiseReceipt](shared.NewValidationError("INVALID_PROMISE_DATE", "Promise date cannot be in the past")), nil
	}
	contactType := req.ContactType
	if contactType == "" {
		contactType = collection.ContactTypeCall
	}

	var (
		result shared.Result[*PromiseReceipt]
		alert  *collection.Alert
	)
	err := t.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		alert, err = t.alertRepo.FindByID(txCtx, req.AlertID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				result = shared.Fail[*PromiseReceipt](shared.NotFoundf("ALERT_NOT_FOUND", "Collection alert %s not found", req.AlertID))
				return nil
			}
			return fmt.Errorf("failed to load alert: %w", err)
		}

		if err := alert.RegisterPromise(agentID, req.PromiseDate, req.PromiseAmount, now); err != nil {
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				result = shared.Fail[*PromiseReceipt](domainErr)
				return nil
			}
			return err
		}

		entry, err := collection.NewContactEntry(alert.ID, agentID, contactType, collection.ContactResultPromise, req.Notes, now)
		if err != nil {
			return err
		}
		entry.WithPromise(req.PromiseDate, req.PromiseAmount)
		if err := t.historyRepo.Append(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append contact history: %w", err)
		}
		if err := t.alertRepo.SaveWithLock(txCtx, alert); err != nil {
			return err
		}

		result = shared.Ok(&PromiseReceipt{
			AlertID:         alert.ID,
			HistoryEntryID:  entry.ID,
			State:           alert.State,
			PromiseDate:     *alert.PromiseDate,
			PromiseAmount:   *alert.PromiseAmount,
			AssignedAgentID: alert.AssignedAgentID,
		})
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		t.logger.Error("failed to register promise",
			zap.String("alert_id", req.AlertID.String()),
			zap.String("agent_id", agentID),
			zap.Error(err),
		)
		return shared.Result[*PromiseReceipt]{}, err
	}
	if !result.IsOk() {
		telemetry.SetAttribute(span, "rejected", result.Message())
		return result, nil
	}

	t.publishEvents(ctx, alert)
	t.metrics.RecordPromiseOutcome(ctx, telemetry.PromiseOutcomeRegistered)
	t.logger.Info("promise registered",
		zap.String("alert_id", alert.ID.String()),
		zap.String("agent_id", agentID),
		zap.Time("promise_date", *alert.PromiseDate),
		zap.String("promise_amount", alert.PromiseAmount.String()),
	)

	return result, nil
}

// ListOverduePromises returns promises whose date plus cfg.ToleranceDays is before asOf,
// most overdue first
func (t *PromiseTracker) ListOverduePromises(ctx context.Context, cfg collection.PromiseConfig, asOf *time.Time) ([]OverduePromise, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection_promise", "list_overdue")
	defer span.End()

	date := shared.AsOfOrToday(t.clock, asOf)
	alerts, err := t.promisedAlerts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	overdue := make([]OverduePromise, 0)
	for i := range alerts {
		alert := &alerts[i]
		if !alert.HasPromise() {
			continue
		}
		days := alert.DaysPastTolerance(cfg.ToleranceDays, date)
		if days <= 0 {
			continue
		}
		item := OverduePromise{
			AlertID:         alert.ID,
			CreditID:        alert.CreditID,
			CustomerID:      alert.CustomerID,
			CustomerName:    alert.CustomerName,
			AssignedAgentID: alert.AssignedAgentID,
			PromiseDate:     *alert.PromiseDate,
			TotalAmount:     alert.TotalAmount,
			DaysOverdue:     days,
		}
		if alert.PromiseAmount != nil {
			item.PromiseAmount = *alert.PromiseAmount
		}
		overdue = append(overdue, item)
	}

	sort.SliceStable(overdue, func(i, j int) bool {
		return overdue[i].DaysOverdue > overdue[j].DaysOverdue
	})
	telemetry.SetAttribute(span, "overdue_count", len(overdue))

	return overdue, nil
}

// ListApproachingPromises returns alerts whose promise is due within cfg.ReminderLeadDays
func (t *PromiseTracker) ListApproachingPromises(ctx context.Context, cfg collection.PromiseConfig, asOf *time.Time) ([]collection.Alert, error) {
	date := shared.AsOfOrToday(t.clock, asOf)
	alerts, err := t.promisedAlerts(ctx)
	if err != nil {
		return nil, err
	}

	approaching := make([]collection.Alert, 0)
	for i := range alerts {
		if alerts[i].IsApproachingDue(cfg.ReminderLeadDays, date) {
			approaching = append(approaching, alerts[i])
		}
	}
	sort.SliceStable(approaching, func(i, j int) bool {
		return approaching[i].PromiseDate.Before(*approaching[j].PromiseDate)
	})
	return approaching, nil
}

// PublishReminders publishes a promise-due-soon event per approaching promise
// and returns how many were published
func (t *PromiseTracker) PublishReminders(ctx context.Context, cfg collection.PromiseConfig, asOf *time.Time) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection_promise", "publish_reminders")
	defer span.End()

	if t.publisher == nil {
		return 0, nil
	}
	date := shared.AsOfOrToday(t.clock, asOf)
	alerts, err := t.ListApproachingPromises(ctx, cfg, &date)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}

	published := 0
	for i := range alerts {
		if err := t.publisher.Publish(ctx, collection.NewPromiseDueSoonEvent(&alerts[i], date)); err != nil {
			t.logger.Warn("failed to publish promise reminder",
				zap.String("alert_id", alerts[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		published++
	}
	t.metrics.RecordReminders(ctx, published)
	telemetry.SetAttribute(span, "published", published)

	return published, nil
}

// MarkPromiseBroken sends a PROMESA_PAGO alert back to EN_GESTION.
// It returns false without changes when the alert is missing or holds no promise.
func (t *PromiseTracker) MarkPromiseBroken(ctx context.Context, alertID uuid.UUID, agentID, notes string) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection_promise", "mark_broken")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAlertID, alertID.String(),
		telemetry.SpanAttrAgentID, agentID,
	)

	now := t.clock.Now()
	var alert *collection.Alert
	applied := false
	err := t.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		alert, err = t.loadAlert(txCtx, alertID)
		if err != nil || alert == nil {
			return err
		}

		if err := alert.MarkPromiseBroken(agentID, notes, now); err != nil {
			t.logger.Debug("promise not broken", zap.String("alert_id", alertID.String()), zap.Error(err))
			return nil
		}

		entry, err := collection.NewContactEntry(alert.ID, agentID, collection.ContactTypeSystem, collection.ContactResultPromiseBroken, notes, now)
		if err != nil {
			return err
		}
		if err := t.historyRepo.Append(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append contact history: %w", err)
		}
		if err := t.alertRepo.SaveWithLock(txCtx, alert); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return false, err
	}
	if !applied {
		return false, nil
	}

	t.publishEvents(ctx, alert)
	t.metrics.RecordPromiseOutcome(ctx, telemetry.PromiseOutcomeBroken)
	t.logger.Info("promise marked as broken",
		zap.String("alert_id", alertID.String()),
		zap.String("agent_id", agentID),
	)
	return true, nil
}

// MarkPromiseFulfilled applies a payment to an open alert. A payment covering the
// larger of the promise and the total owed regularizes the alert; smaller payments
// reduce the outstanding amount and send the alert back to EN_GESTION.
// The payment is also applied to the credit's pending installments in the same
// transaction, so the next mora run computes fees on what is still owed.
// It returns false without changes for a non-positive amount, a missing alert or a resolved one.
func (t *PromiseTracker) MarkPromiseFulfilled(ctx context.Context, alertID uuid.UUID, agentID string, amountPaid decimal.Decimal) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection_promise", "mark_fulfilled")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAlertID, alertID.String(),
		telemetry.SpanAttrAgentID, agentID,
		telemetry.SpanAttrAmount, amountPaid.String(),
	)

	if !amountPaid.IsPositive() {
		return false, nil
	}

	now := t.clock.Now()
	var (
		alert       *collection.Alert
		regularized bool
		applied     bool
	)
	err := t.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		alert, err = t.loadAlert(txCtx, alertID)
		if err != nil || alert == nil {
			return err
		}

		regularized, err = alert.RegisterPayment(amountPaid, now)
		if err != nil {
			t.logger.Debug("payment not applied", zap.String("alert_id", alertID.String()), zap.Error(err))
			return nil
		}

		if err := t.applyToCredit(txCtx, alert.CreditID, amountPaid, now); err != nil {
			return err
		}

		entry, err := collection.NewContactEntry(alert.ID, agentID, collection.ContactTypeSystem, collection.ContactResultPaymentMade, "", now)
		if err != nil {
			return err
		}
		entry.WithPayment(amountPaid)
		if err := t.historyRepo.Append(txCtx, entry); err != nil {
			return fmt.Errorf("failed to append contact history: %w", err)
		}
		if err := t.alertRepo.SaveWithLock(txCtx, alert); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return false, err
	}
	if !applied {
		return false, nil
	}

	outcome := telemetry.PromiseOutcomePartial
	if regularized {
		outcome = telemetry.PromiseOutcomeFulfilled
	}
	t.publishEvents(ctx, alert)
	t.metrics.RecordPromiseOutcome(ctx, outcome)
	t.logger.Info("payment registered on alert",
		zap.String("alert_id", alertID.String()),
		zap.String("amount_paid", amountPaid.String()),
		zap.Bool("regularized", regularized),
		zap.String("outstanding", alert.OutstandingAmount.String()),
	)
	return true, nil
}

// ContactHistory returns the contact entries of an alert, oldest first
func (t *PromiseTracker) ContactHistory(ctx context.Context, alertID uuid.UUID) ([]ContactHistoryItem, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "collection_promise", "contact_history")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAlertID, alertID.String())

	entries, err := t.historyRepo.FindByAlert(ctx, alertID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to load contact history: %w", err)
	}

	items := make([]ContactHistoryItem, len(entries))
	for i, e := range entries {
		items[i] = ContactHistoryItem{
			ID:            e.ID,
			AgentID:       e.AgentID,
			ContactType:   e.ContactType,
			Result:        e.Result,
			PromiseDate:   e.PromiseDate,
			PromiseAmount: e.PromiseAmount,
			AmountPaid:    e.AmountPaid,
			Notes:         e.Notes,
			ContactedAt:   e.ContactedAt,
		}
	}
	return items, nil
}

// applyToCredit settles installments of the alert's credit. A missing or closed
// credit leaves the installments alone; the alert still records the payment.
func (t *PromiseTracker) applyToCredit(ctx context.Context, creditID uuid.UUID, amount decimal.Decimal, now time.Time) error {
	c, err := t.creditRepo.FindByID(ctx, creditID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			t.logger.Warn("payment not applied to installments, credit not found", zap.String("credit_id", creditID.String()))
			return nil
		}
		return fmt.Errorf("failed to load credit: %w", err)
	}

	applied, err := c.ApplyPayment(amount, now)
	if err != nil {
		t.logger.Warn("payment not applied to installments",
			zap.String("credit_id", creditID.String()),
			zap.Error(err),
		)
		return nil
	}
	if err := t.creditRepo.Save(ctx, c); err != nil {
		return fmt.Errorf("failed to save credit: %w", err)
	}
	t.logger.Debug("payment applied to installments",
		zap.String("credit_id", creditID.String()),
		zap.String("applied", applied.String()),
		zap.String("remaining_balance", c.RemainingBalance.String()),
	)
	return nil
}

// loadAlert returns nil without error when the alert does not exist
func (t *PromiseTracker) loadAlert(ctx context.Context, id uuid.UUID) (*collection.Alert, error) {
	alert, err := t.alertRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	return alert, nil
}

func (t *PromiseTracker) promisedAlerts(ctx context.Context) ([]collection.Alert, error) {
	all := make([]collection.Alert, 0)
	filter := shared.Filter{Page: 1, PageSize: scanPageSize, OrderBy: "promise_date", OrderDir: "asc"}
	for {
		page, err := t.alertRepo.FindByState(ctx, collection.AlertStatePromised, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list promised alerts: %w", err)
		}
		all = append(all, page...)
		if len(page) < filter.PageSize {
			return all, nil
		}
		filter.Page++
	}
}

func (t *PromiseTracker) publishEvents(ctx context.Context, alert *collection.Alert) {
	events := alert.GetDomainEvents()
	alert.ClearDomainEvents()
	if t.publisher == nil || len(events) == 0 {
		return
	}
	if err := t.publisher.Publish(ctx, events...); err != nil {
		t.logger.Warn("failed to publish alert events",
			zap.String("alert_id", alert.ID.String()),
			zap.Error(err),
		)
	}
}
