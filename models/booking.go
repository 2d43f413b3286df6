package models

import "time"

// Booking statuses.
const (
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusRejected    = "rejected"
	StatusInProgress  = "in_progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
)

// Payment statuses.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
)

// ActiveStatuses are the statuses that still occupy a slot and block other
// bookings for the same provider/date/time.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusInProgress, StatusRescheduled}

// TerminalStatuses accept no further transitions.
var TerminalStatuses = []string{StatusCompleted, StatusCancelled, StatusRejected}

// Booking represents a customer's reservation of a provider's service at a
// specific date and time. Never hard-deleted.
type Booking struct {
	ID            string     `bson:"id" json:"id"`
	CustomerID    string     `bson:"customer_id" json:"customer_id"`
	ProviderID    string     `bson:"provider_id" json:"provider_id"`
	ServiceID     string     `bson:"service_id" json:"service_id"`
	Date          string     `bson:"date" json:"date"` // "YYYY-MM-DD"
	Time          string     `bson:"time" json:"time"` // "HH:MM", a slot StartTime
	Status        string     `bson:"status" json:"status"`
	TotalAmount   float64    `bson:"total_amount" json:"total_amount"`
	Currency      string     `bson:"currency" json:"currency"`
	PaymentStatus string     `bson:"payment_status" json:"payment_status"`
	Rating        float64    `bson:"rating,omitempty" json:"rating,omitempty"`
	Review        string     `bson:"review,omitempty" json:"review,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at" json:"updated_at"`
	CompletedAt   *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// IsTerminal reports whether the booking accepts no further transitions.
func (b *Booking) IsTerminal() bool {
	for _, s := range TerminalStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}
