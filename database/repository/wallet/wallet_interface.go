package walletRepo

import (
	"context"

	"servana/models"
)

// WalletRepository defines data access for wallets and their ledger.
type WalletRepository interface {
	// GetByUserID retrieves a user's wallet, or nil if absent.
	GetByUserID(ctx context.Context, userID string) (*models.Wallet, error)
	// Create inserts a new wallet record.
	Create(ctx context.Context, wallet *models.Wallet) error
	// Credit atomically adds amount to a wallet and appends a ledger entry.
	Credit(ctx context.Context, userID string, amount float64, narration string) error
	// ListLedger retrieves a wallet's ledger entries, newest first.
	ListLedger(ctx context.Context, userID string) ([]models.LedgerEntry, error)
	// ApplyBookingPayment debits the customer wallet, credits the provider
	// wallet, writes both ledger entries and marks the booking paid as one
	// all-or-nothing unit. Returns ErrInsufficientFunds without any partial
	// application when the customer balance cannot cover the amount.
	ApplyBookingPayment(ctx context.Context, booking *models.Booking) error
}
