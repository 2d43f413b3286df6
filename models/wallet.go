package models

import "time"

// Ledger entry types.
const (
	LedgerDebit  = "debit"
	LedgerCredit = "credit"
)

// Wallet is a user's internal balance. This is a simplified in-house ledger,
// not a settlement integration.
type Wallet struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Balance   float64   `bson:"balance" json:"balance"`
	Currency  string    `bson:"currency" json:"currency"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// LedgerEntry records one wallet movement. Exactly one debit and one credit
// entry exist per processed booking payment.
type LedgerEntry struct {
	ID        string    `bson:"id" json:"id"`
	WalletID  string    `bson:"wallet_id" json:"wallet_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	BookingID string    `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	Type      string    `bson:"type" json:"type"`
	Amount    float64   `bson:"amount" json:"amount"`
	Balance   float64   `bson:"balance" json:"balance"` // balance after applying
	Narration string    `bson:"narration,omitempty" json:"narration,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
