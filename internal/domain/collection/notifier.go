package collection

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PromiseReminder is what agents are told about a promise coming due
type PromiseReminder struct {
	AlertID         uuid.UUID
	CustomerName    string
	AssignedAgentID string
	PromiseDate     time.Time
	PromiseAmount   decimal.Decimal
	DaysUntilDue    int
}

// Notifier delivers collection notifications to agents
type Notifier interface {
	NotifyPromiseDueSoon(ctx context.Context, reminder PromiseReminder) error
}
