package booking

import (
	"context"

	"servana/models"
)

// CreateBookingRequest is the input for a new booking.
type CreateBookingRequest struct {
	CustomerID string
	ProviderID string
	ServiceID  string
	Date       string // "YYYY-MM-DD"
	Time       string // "HH:MM", must match a ledger slot start time
}

// Service is the booking concurrency guard: creation with conflict
// prevention, the role-gated status machine, reschedule and rating.
type Service interface {
	// CreateBooking reserves the availability slot and records the booking.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	// GetBooking retrieves a booking visible to the given actor.
	GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	// ListBookings retrieves the actor's bookings (as customer or provider).
	ListBookings(ctx context.Context, actorID, role string) ([]models.Booking, error)
	// Transition applies a status change on behalf of actorID.
	Transition(ctx context.Context, bookingID, newStatus, actorID string) (*models.Booking, error)
	// Reschedule moves a confirmed booking to a new date/time.
	Reschedule(ctx context.Context, bookingID, newDate, newTime, actorID string) (*models.Booking, error)
	// AddRating attaches a one-time rating to a completed booking and
	// recomputes the provider's and service's averages.
	AddRating(ctx context.Context, bookingID, actorID string, rating float64, review string) (*models.Booking, error)
}
