package collection

import (
	"context"

	"github.com/alanminana/TheBuryProject-sub001/internal/domain/shared"
	"github.com/google/uuid"
)

// AlertRepository defines the interface for collection alert persistence
type AlertRepository interface {
	// FindByID finds an alert by its ID, or returns shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)

	// FindOpenByCredit finds the unresolved alert of a credit, or returns shared.ErrNotFound
	FindOpenByCredit(ctx context.Context, creditID uuid.UUID) (*Alert, error)

	// FindByState finds unresolved alerts in the given state
	FindByState(ctx context.Context, state AlertState, filter shared.Filter) ([]Alert, error)

	// Save creates or updates an alert without a version check
	Save(ctx context.Context, alert *Alert) error

	// SaveWithLock updates an alert with optimistic locking (version check).
	// Returns shared.ErrConcurrencyConflict if the stored version has moved on.
	SaveWithLock(ctx context.Context, alert *Alert) error
}

// ContactHistoryRepository stores the append-only contact history
type ContactHistoryRepository interface {
	// Append inserts a history entry
	Append(ctx context.Context, entry *ContactEntry) error

	// FindByAlert returns the entries of an alert, oldest first
	FindByAlert(ctx context.Context, alertID uuid.UUID) ([]ContactEntry, error)
}
