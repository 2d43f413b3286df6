package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "servana/database/repository/availability"
	"servana/models"
	"servana/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// DefaultLedgerService is the concrete availability ledger.
type DefaultLedgerService struct {
	Repo   availabilityRepo.AvailabilityRepository
	Grid   GridConfig
	Logger *zap.Logger
}

// NewDefaultLedgerService constructs the ledger with the given default grid.
func NewDefaultLedgerService(repo availabilityRepo.AvailabilityRepository, grid GridConfig, logger *zap.Logger) *DefaultLedgerService {
	if grid.SlotMinutes <= 0 {
		grid = DefaultGrid
	}
	return &DefaultLedgerService{Repo: repo, Grid: grid, Logger: logger}
}

// GetOrCreateDay returns the existing day or creates one with the default
// grid. The create path upserts with $setOnInsert and re-reads, so two
// concurrent callers converge on the same document.
func (s *DefaultLedgerService) GetOrCreateDay(ctx context.Context, providerID, date string) (*models.AvailabilityDay, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid date %q, want YYYY-MM-DD", date))
	}

	day, err := s.Repo.GetDay(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	if day != nil {
		return day, nil
	}

	now := time.Now().UTC()
	fresh := &models.AvailabilityDay{
		ID:          uuid.New().String(),
		ProviderID:  providerID,
		Date:        date,
		Slots:       BuildGrid(s.Grid),
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := s.Repo.CreateDay(ctx, fresh)
	if err != nil {
		return nil, err
	}
	if created {
		s.Logger.Debug("availability: created day",
			zap.String("provider", providerID), zap.String("date", date))
		return fresh, nil
	}

	// Lost the creation race; read whoever won.
	day, err = s.Repo.GetDay(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, fmt.Errorf("availability day for %s on %s vanished after upsert", providerID, date)
	}
	return day, nil
}

// GetRange returns one day per date in the inclusive range, ascending.
func (s *DefaultLedgerService) GetRange(ctx context.Context, providerID, start, end string) ([]models.AvailabilityDay, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid start date %q", start))
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid end date %q", end))
	}
	if to.Before(from) {
		return nil, utils.NewValidationError("end date is before start date")
	}

	var days []models.AvailabilityDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day, err := s.GetOrCreateDay(ctx, providerID, d.Format(dateLayout))
		if err != nil {
			return nil, err
		}
		days = append(days, *day)
	}
	return days, nil
}

// SetDay replaces a day's slots wholesale. Provider-authored; reservation
// state on edited slots is whatever the provider submitted, so the handler
// surface restricts this to the owning provider.
func (s *DefaultLedgerService) SetDay(ctx context.Context, actorID, providerID, date string, slots []models.Slot, isAvailable bool) (*models.AvailabilityDay, error) {
	if actorID != providerID {
		return nil, utils.NewForbiddenError("only the owning provider may edit availability")
	}
	if err := validateSlots(slots); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	// Materialize the day first so edits on untouched dates work.
	if _, err := s.GetOrCreateDay(ctx, providerID, date); err != nil {
		return nil, err
	}
	if err := s.Repo.ReplaceDay(ctx, providerID, date, slots, isAvailable); err != nil {
		return nil, err
	}
	return s.Repo.GetDay(ctx, providerID, date)
}

// ReserveSlot books one slot for bookingID, mapping repository sentinels
// onto the API error taxonomy. Conflict stays distinguishable from NotFound
// so callers can say "already booked" instead of "bad request".
func (s *DefaultLedgerService) ReserveSlot(ctx context.Context, providerID, date, startTime, bookingID string) error {
	if _, err := s.GetOrCreateDay(ctx, providerID, date); err != nil {
		return err
	}
	err := s.Repo.ReserveSlot(ctx, providerID, date, startTime, bookingID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, availabilityRepo.ErrSlotNotFound):
		return utils.NewNotFoundError(fmt.Sprintf("no slot starts at %s on %s", startTime, date))
	case errors.Is(err, availabilityRepo.ErrSlotTaken):
		return utils.NewConflictError("provider not available at this time")
	default:
		return err
	}
}

// ReleaseSlot frees the slot held by bookingID. Releasing a slot that is
// not held by the booking is a conflict, not a silent no-op, so callers
// learn about reconciliation bugs.
func (s *DefaultLedgerService) ReleaseSlot(ctx context.Context, providerID, date, startTime, bookingID string) error {
	err := s.Repo.ReleaseSlot(ctx, providerID, date, startTime, bookingID)
	if errors.Is(err, availabilityRepo.ErrSlotMismatch) {
		return utils.NewConflictError("slot is not held by this booking")
	}
	return err
}
