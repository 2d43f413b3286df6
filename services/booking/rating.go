package booking

import (
	"context"
	"fmt"

	"servana/models"
	"servana/utils"

	"go.uber.org/zap"
)

// AddRating attaches a one-time rating to a completed booking, then
// recomputes the provider's and the service's average by full scan. The
// scan is O(n) per rating event; correctness over an incremental counter.
func (s *DefaultBookingService) AddRating(ctx context.Context, bookingID, actorID string, rating float64, review string) (*models.Booking, error) {
	if rating < 1 || rating > 5 {
		return nil, utils.NewValidationError("rating must be between 1 and 5")
	}

	booking, err := s.mustGet(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actorID != booking.CustomerID {
		return nil, utils.NewForbiddenError("only the customer may rate a booking")
	}
	if booking.Status != models.StatusCompleted {
		return nil, utils.NewInvalidStateError("only completed bookings can be rated")
	}
	if booking.Rating > 0 {
		return nil, utils.NewConflictError("booking is already rated")
	}

	booking.Rating = rating
	booking.Review = review
	if err := s.Repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.recomputeAverages(ctx, booking)

	s.Notification.Notify(ctx, booking.ProviderID, "New rating",
		fmt.Sprintf("A customer rated a booking %.0f/5.", rating),
		map[string]string{"bookingId": booking.ID})

	return booking, nil
}

// recomputeAverages refreshes the stored aggregates. Failures here leave
// the rating attached and only the aggregate stale; the next rating event
// corrects it.
func (s *DefaultBookingService) recomputeAverages(ctx context.Context, b *models.Booking) {
	if avg, count, err := s.Repo.RatedAverage(ctx, "provider_id", b.ProviderID); err != nil {
		s.Logger.Warn("booking: provider rating recompute failed",
			zap.String("provider", b.ProviderID), zap.Error(err))
	} else if err := s.UserRepo.SetRating(ctx, b.ProviderID, avg, count); err != nil {
		s.Logger.Warn("booking: provider rating store failed",
			zap.String("provider", b.ProviderID), zap.Error(err))
	}

	if avg, count, err := s.Repo.RatedAverage(ctx, "service_id", b.ServiceID); err != nil {
		s.Logger.Warn("booking: service rating recompute failed",
			zap.String("service", b.ServiceID), zap.Error(err))
	} else if err := s.CatalogRepo.SetServiceRating(ctx, b.ServiceID, avg, count); err != nil {
		s.Logger.Warn("booking: service rating store failed",
			zap.String("service", b.ServiceID), zap.Error(err))
	}
}
