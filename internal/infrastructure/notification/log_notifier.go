// Package notification delivers collection notifications to agents.
package notification

import (
	"context"
	"fmt"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/collection"
	"github.com/alanminana/TheBuryProject-sub001/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"go.uber.org/zap"
)

// LogNotifier writes reminders to the structured log, formatted for the agent's locale.
// It stands in for an outbound channel (mail, chat) until one is configured.
type LogNotifier struct {
	tag     language.Tag
	printer *message.Printer
	logger  *zap.Logger
}

// NewLogNotifier creates a LogNotifier for the given BCP 47 locale ("es-AR")
func NewLogNotifier(locale string, log *zap.Logger) (*LogNotifier, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid notification locale %q: %w", locale, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{
		tag:     tag,
		printer: message.NewPrinter(tag),
		logger:  log.Named("notification"),
	}, nil
}

// NotifyPromiseDueSoon logs the reminder for the assigned agent
func (n *LogNotifier) NotifyPromiseDueSoon(ctx context.Context, reminder collection.PromiseReminder) error {
	logger.Enrich(ctx, n.logger).Info(n.FormatReminder(reminder),
		zap.String("alert_id", reminder.AlertID.String()),
		zap.String("agent_id", reminder.AssignedAgentID),
		zap.Time("promise_date", reminder.PromiseDate),
		zap.String("promise_amount", reminder.PromiseAmount.StringFixed(2)),
		zap.Int("days_until_due", reminder.DaysUntilDue),
		zap.String("locale", n.tag.String()),
	)
	return nil
}

// FormatReminder renders the human-readable reminder line
func (n *LogNotifier) FormatReminder(r collection.PromiseReminder) string {
	// Casers keep state between calls
	customer := cases.Title(n.tag).String(r.CustomerName)
	if customer == "" {
		customer = "-"
	}
	return n.printer.Sprintf("Payment promise of %s from %s is due on %s (%s)",
		n.FormatAmount(r.PromiseAmount),
		customer,
		r.PromiseDate.Format("02/01/2006"),
		dueIn(r.DaysUntilDue),
	)
}

// FormatAmount formats an amount with two decimals and the locale's separators
func (n *LogNotifier) FormatAmount(amount decimal.Decimal) string {
	return n.printer.Sprintf("%v", number.Decimal(amount.Round(2).InexactFloat64(), number.Scale(2)))
}

func dueIn(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days < 0:
		return fmt.Sprintf("%d days ago", -days)
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

var _ collection.Notifier = (*LogNotifier)(nil)
