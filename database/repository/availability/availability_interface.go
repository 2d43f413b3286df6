package availabilityRepo

import (
	"context"

	"servana/models"
)

// AvailabilityRepository defines data access for AvailabilityDay documents.
// ReserveSlot and ReleaseSlot are the only slot mutations and must be atomic
// per (provider, date, startTime).
type AvailabilityRepository interface {
	// GetDay retrieves the day for (providerID, date), or nil if absent.
	GetDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error)
	// CreateDay inserts a day if none exists yet for (providerID, date) and
	// reports whether the insert happened. Safe to call concurrently.
	CreateDay(ctx context.Context, day *models.AvailabilityDay) (bool, error)
	// ReplaceDay overwrites the slot list and availability flag of a day.
	ReplaceDay(ctx context.Context, providerID, date string, slots []models.Slot, isAvailable bool) error
	// ReserveSlot marks the slot identified by startTime as booked by
	// bookingID. Returns ErrSlotNotFound or ErrSlotTaken on failure.
	ReserveSlot(ctx context.Context, providerID, date, startTime, bookingID string) error
	// ReleaseSlot clears the booking on the slot. Returns ErrSlotMismatch if
	// the slot is not held by bookingID.
	ReleaseSlot(ctx context.Context, providerID, date, startTime, bookingID string) error
	// BookedSlots lists all currently booked slots for the reconciliation
	// sweep.
	BookedSlots(ctx context.Context) ([]models.BookedSlotRef, error)
}
