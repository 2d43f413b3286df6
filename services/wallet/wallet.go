package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "servana/database/repository/booking"
	walletRepo "servana/database/repository/wallet"
	"servana/models"
	"servana/services/notification"
	"servana/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWalletService implements Service on the Mongo wallet repository.
// Atomicity of the booking payment lives in the repository transaction; this
// layer adds access control, state checks and notifications.
type DefaultWalletService struct {
	Repo         walletRepo.WalletRepository
	BookingRepo  bookingRepo.BookingRepository
	Notification notification.Service
	Logger       *zap.Logger
}

// GetWallet retrieves the user's wallet, creating an empty one on first use.
func (s *DefaultWalletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	if userID == "" {
		return nil, utils.NewValidationError("user id is required")
	}
	w, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if w != nil {
		return w, nil
	}

	now := time.Now().UTC()
	w = &models.Wallet{
		ID:        uuid.New().String(),
		UserID:    userID,
		Currency:  "NGN",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, w); err != nil {
		// Lost a creation race: read back the winner.
		if existing, gerr := s.Repo.GetByUserID(ctx, userID); gerr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return w, nil
}

// Deposit adds funds to the user's wallet and returns the updated balance.
func (s *DefaultWalletService) Deposit(ctx context.Context, userID string, amount float64, narration string) (*models.Wallet, error) {
	if amount <= 0 {
		return nil, utils.NewValidationError("deposit amount must be positive")
	}
	if _, err := s.GetWallet(ctx, userID); err != nil {
		return nil, err
	}
	if narration == "" {
		narration = "wallet deposit"
	}
	if err := s.Repo.Credit(ctx, userID, amount, narration); err != nil {
		return nil, err
	}
	return s.Repo.GetByUserID(ctx, userID)
}

// ListLedger retrieves the user's ledger entries, newest first.
func (s *DefaultWalletService) ListLedger(ctx context.Context, userID string) ([]models.LedgerEntry, error) {
	if _, err := s.GetWallet(ctx, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListLedger(ctx, userID)
}

// PayForBooking applies the wallet payment for a booking. Only the booking's
// customer may pay, the booking must not be cancelled or rejected, and a
// booking already marked paid conflicts. The balance transfer, both ledger
// entries and the paid flag commit or roll back together.
func (s *DefaultWalletService) PayForBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	booking, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("booking %s not found", bookingID))
	}
	if actorID != booking.CustomerID {
		return nil, utils.NewForbiddenError("only the customer may pay for a booking")
	}
	if booking.PaymentStatus == models.PaymentPaid {
		return nil, utils.NewConflictError("booking is already paid")
	}
	switch booking.Status {
	case models.StatusCancelled, models.StatusRejected:
		return nil, utils.NewInvalidStateError("cannot pay for a " + booking.Status + " booking")
	}
	if booking.TotalAmount <= 0 {
		return nil, utils.NewInvalidStateError("booking has no payable amount")
	}

	// Both wallets must exist before the transaction touches them.
	if _, err := s.GetWallet(ctx, booking.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.GetWallet(ctx, booking.ProviderID); err != nil {
		return nil, err
	}

	if err := s.Repo.ApplyBookingPayment(ctx, booking); err != nil {
		if errors.Is(err, walletRepo.ErrInsufficientFunds) {
			return nil, utils.NewConflictError("insufficient wallet balance")
		}
		return nil, err
	}
	booking.PaymentStatus = models.PaymentPaid

	s.Notification.Notify(ctx, booking.ProviderID, "Payment received",
		fmt.Sprintf("%.2f %s was paid for a booking.", booking.TotalAmount, booking.Currency),
		map[string]string{"bookingId": booking.ID})
	s.Logger.Info("wallet: booking payment applied",
		zap.String("booking", booking.ID),
		zap.Float64("amount", booking.TotalAmount))

	return booking, nil
}
