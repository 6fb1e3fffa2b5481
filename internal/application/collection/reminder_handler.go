package collection

import (
	"context"
	"fmt"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"go.uber.org/zap"
)

// PromiseDueSoonHandler forwards promise-due-soon events to the notification sink
type PromiseDueSoonHandler struct {
	notifier collection.Notifier
	logger   *zap.Logger
}

// NewPromiseDueSoonHandler creates a new handler for promise-due-soon events
func NewPromiseDueSoonHandler(notifier collection.Notifier, logger *zap.Logger) *PromiseDueSoonHandler {
	return &PromiseDueSoonHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *PromiseDueSoonHandler) EventTypes() []string {
	return []string{collection.EventTypePromiseDueSoon}
}

// Handle processes a PromiseDueSoonEvent by notifying the assigned agent
func (h *PromiseDueSoonHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	dueSoon, ok := event.(*collection.PromiseDueSoonEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", collection.EventTypePromiseDueSoon),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			collection.EventTypePromiseDueSoon, event.EventType())
	}

	reminder := collection.PromiseReminder{
		AlertID:         dueSoon.AlertID,
		CustomerName:    dueSoon.CustomerName,
		AssignedAgentID: dueSoon.AssignedAgentID,
		PromiseDate:     dueSoon.PromiseDate,
		PromiseAmount:   dueSoon.PromiseAmount,
		DaysUntilDue:    dueSoon.DaysUntilDue,
	}
	if err := h.notifier.NotifyPromiseDueSoon(ctx, reminder); err != nil {
		h.logger.Error("failed to deliver promise reminder",
			zap.String("alert_id", dueSoon.AlertID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("failed to deliver promise reminder: %w", err)
	}
	return nil
}
