package bookingRepo

import (
	"context"

	"servana/models"
)

// BookingRepository defines data access for bookings.
type BookingRepository interface {
	// GetByID retrieves a booking by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Create inserts a new booking record. Returns ErrDuplicateSlot when a
	// non-terminal booking already holds (provider, date, time).
	Create(ctx context.Context, booking *models.Booking) error
	// Update persists changed fields of an existing booking.
	Update(ctx context.Context, booking *models.Booking) error
	// UpdateIfStatus persists the booking only while its stored status still
	// equals fromStatus. Returns ErrStaleStatus when a concurrent writer
	// moved the booking on first.
	UpdateIfStatus(ctx context.Context, booking *models.Booking, fromStatus string) error
	// FindActive returns the non-terminal booking for (provider, date, time),
	// or nil. exclude skips one booking ID (used by reschedule).
	FindActive(ctx context.Context, providerID, date, timeOfDay, exclude string) (*models.Booking, error)
	// ListByCustomer retrieves a customer's bookings, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	// ListByProvider retrieves a provider's bookings, newest first.
	ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error)
	// RatedAverage computes the arithmetic mean rating over all rated
	// bookings matching field=value ("provider_id" or "service_id").
	RatedAverage(ctx context.Context, field, value string) (avg float64, count int, err error)
}
