package availability

import (
	"context"

	"servana/models"
)

// LedgerService is the availability ledger: the single authority on whether
// a provider's time slot is taken.
type LedgerService interface {
	// GetOrCreateDay returns the day for (providerID, date), creating it
	// with the default slot grid on first access. Idempotent.
	GetOrCreateDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error)
	// GetRange returns a day for every date in [start, end], ascending,
	// creating missing days along the way.
	GetRange(ctx context.Context, providerID, start, end string) ([]models.AvailabilityDay, error)
	// SetDay replaces a day's slot list and availability flag. Only the
	// owning provider may call it.
	SetDay(ctx context.Context, actorID, providerID, date string, slots []models.Slot, isAvailable bool) (*models.AvailabilityDay, error)
	// ReserveSlot marks the slot at startTime booked by bookingID.
	ReserveSlot(ctx context.Context, providerID, date, startTime, bookingID string) error
	// ReleaseSlot clears the reservation held by bookingID at startTime.
	ReleaseSlot(ctx context.Context, providerID, date, startTime, bookingID string) error
}
