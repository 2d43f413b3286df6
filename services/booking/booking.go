package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "servana/database/repository/booking"
	catalogRepo "servana/database/repository/catalog"
	userRepo "servana/database/repository/user"
	"servana/models"
	"servana/services/availability"
	"servana/services/notification"
	"servana/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// DefaultBookingService is the concrete booking guard. The availability
// ledger is the single authority on whether a time is taken: creation
// reserves the matching slot before the booking document exists, and the
// unique partial index on bookings is the storage-level backstop.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	Ledger       availability.LedgerService
	CatalogRepo  catalogRepo.CatalogRepository
	UserRepo     userRepo.UserRepository
	Notification notification.Service
	Logger       *zap.Logger
}

// CreateBooking validates the request, reserves the availability slot and
// inserts the booking. On insert failure the reservation is rolled back so
// no slot stays held by a booking that never existed.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if req.CustomerID == "" || req.ProviderID == "" || req.ServiceID == "" {
		return nil, utils.NewValidationError("customer, provider and service are required")
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", req.Date))
	}

	svc, err := s.CatalogRepo.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("service %s not found", req.ServiceID))
	}
	if svc.ProviderID != req.ProviderID {
		return nil, utils.NewValidationError("service does not belong to that provider")
	}

	// Friendly pre-check; the reservation below is the real guard.
	existing, err := s.Repo.FindActive(ctx, req.ProviderID, req.Date, req.Time, "")
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("provider not available at this time")
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		CustomerID:    req.CustomerID,
		ProviderID:    req.ProviderID,
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		Time:          req.Time,
		Status:        models.StatusPending,
		TotalAmount:   svc.Price,
		Currency:      svc.Currency,
		PaymentStatus: models.PaymentUnpaid,
	}

	if err := s.Ledger.ReserveSlot(ctx, req.ProviderID, req.Date, req.Time, booking.ID); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		if rerr := s.Ledger.ReleaseSlot(ctx, req.ProviderID, req.Date, req.Time, booking.ID); rerr != nil {
			s.Logger.Error("booking: failed to release slot after insert failure",
				zap.String("booking", booking.ID), zap.Error(rerr))
		}
		if errors.Is(err, bookingRepo.ErrDuplicateSlot) {
			return nil, utils.NewConflictError("provider not available at this time")
		}
		return nil, err
	}

	s.Notification.Notify(ctx, req.ProviderID, "New booking request",
		fmt.Sprintf("You have a new booking for %s at %s.", req.Date, req.Time),
		map[string]string{"bookingId": booking.ID})

	return booking, nil
}

// GetBooking retrieves a booking; only its customer or provider may see it.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	booking, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != booking.CustomerID && actorID != booking.ProviderID {
		return nil, utils.NewForbiddenError("not a party to this booking")
	}
	return booking, nil
}

// ListBookings retrieves the actor's bookings by role.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actorID, role string) ([]models.Booking, error) {
	if role == models.RoleProvider {
		return s.Repo.ListByProvider(ctx, actorID)
	}
	return s.Repo.ListByCustomer(ctx, actorID)
}

// Transition applies a role-gated status change and its side effects. A
// crash between the status write and the slot release can strand a booked
// slot; the reconciliation sweep repairs that case.
func (s *DefaultBookingService) Transition(ctx context.Context, bookingID, newStatus, actorID string) (*models.Booking, error) {
	booking, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(booking, newStatus, actorID); err != nil {
		return nil, err
	}

	priorStatus := booking.Status
	booking.Status = newStatus
	if newStatus == models.StatusCompleted {
		now := time.Now().UTC()
		booking.CompletedAt = &now
	}
	// The conditional write is the race guard: validation above ran against
	// priorStatus, and the update only lands while that is still the stored
	// status.
	if err := s.Repo.UpdateIfStatus(ctx, booking, priorStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrStaleStatus) {
			return nil, utils.NewConflictError("booking was updated concurrently, reload and retry")
		}
		return nil, err
	}

	switch newStatus {
	case models.StatusCancelled, models.StatusRejected:
		if err := s.Ledger.ReleaseSlot(ctx, booking.ProviderID, booking.Date, booking.Time, booking.ID); err != nil {
			s.Logger.Warn("booking: slot release failed, sweep will reclaim",
				zap.String("booking", booking.ID), zap.Error(err))
		}
	}
	s.notifyTransition(ctx, booking, newStatus)

	return booking, nil
}

// Reschedule moves a confirmed booking to a new slot. The new slot is
// reserved before the old one is released, so the customer never loses both.
func (s *DefaultBookingService) Reschedule(ctx context.Context, bookingID, newDate, newTime, actorID string) (*models.Booking, error) {
	booking, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(booking, models.StatusRescheduled, actorID); err != nil {
		return nil, err
	}
	if _, err := time.Parse(dateLayout, newDate); err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", newDate))
	}

	conflict, err := s.Repo.FindActive(ctx, booking.ProviderID, newDate, newTime, booking.ID)
	if err != nil {
		return nil, err
	}
	if conflict != nil {
		return nil, utils.NewConflictError("provider not available at this time")
	}

	if err := s.Ledger.ReserveSlot(ctx, booking.ProviderID, newDate, newTime, booking.ID); err != nil {
		return nil, err
	}

	oldDate, oldTime := booking.Date, booking.Time
	priorStatus := booking.Status
	booking.Date = newDate
	booking.Time = newTime
	booking.Status = models.StatusRescheduled
	if err := s.Repo.UpdateIfStatus(ctx, booking, priorStatus); err != nil {
		if rerr := s.Ledger.ReleaseSlot(ctx, booking.ProviderID, newDate, newTime, booking.ID); rerr != nil {
			s.Logger.Error("booking: failed to release new slot after update failure",
				zap.String("booking", booking.ID), zap.Error(rerr))
		}
		if errors.Is(err, bookingRepo.ErrStaleStatus) {
			return nil, utils.NewConflictError("booking was updated concurrently, reload and retry")
		}
		return nil, err
	}

	if err := s.Ledger.ReleaseSlot(ctx, booking.ProviderID, oldDate, oldTime, booking.ID); err != nil {
		s.Logger.Warn("booking: old slot release failed, sweep will reclaim",
			zap.String("booking", booking.ID), zap.Error(err))
	}

	s.Notification.Notify(ctx, booking.ProviderID, "Booking rescheduled",
		fmt.Sprintf("A booking was moved to %s at %s.", newDate, newTime),
		map[string]string{"bookingId": booking.ID})

	return booking, nil
}

func (s *DefaultBookingService) notifyTransition(ctx context.Context, b *models.Booking, newStatus string) {
	messages := map[string]struct {
		to, title, body string
	}{
		models.StatusConfirmed:  {b.CustomerID, "Booking confirmed", "Your booking was confirmed by the provider."},
		models.StatusRejected:   {b.CustomerID, "Booking rejected", "Your booking was rejected by the provider."},
		models.StatusInProgress: {b.CustomerID, "Booking started", "Your booking is now in progress."},
		models.StatusCompleted:  {b.CustomerID, "Booking completed", "Your booking was marked completed."},
		models.StatusCancelled:  {b.ProviderID, "Booking cancelled", "The customer cancelled a booking."},
	}
	m, ok := messages[newStatus]
	if !ok {
		return
	}
	s.Notification.Notify(ctx, m.to, m.title, m.body, map[string]string{"bookingId": b.ID})
}

func (s *DefaultBookingService) mustGet(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}
	return booking, nil
}
