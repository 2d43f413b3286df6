package wallet

import (
	"context"

	"servana/models"
)

// Service is the wallet layer: balances, deposits, ledger history and the
// all-or-nothing booking payment.
type Service interface {
	// GetWallet retrieves the user's wallet, creating an empty one on first
	// access.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
	// Deposit adds funds to the user's wallet.
	Deposit(ctx context.Context, userID string, amount float64, narration string) (*models.Wallet, error)
	// ListLedger retrieves the user's ledger entries, newest first.
	ListLedger(ctx context.Context, userID string) ([]models.LedgerEntry, error)
	// PayForBooking moves the booking amount from the customer wallet to the
	// provider wallet and marks the booking paid, atomically. On any failure
	// no balance moves and the booking stays unpaid.
	PayForBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
}
