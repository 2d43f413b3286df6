package models

import "time"

// Slot is one bookable interval on a provider's calendar. Its identity
// within a day is StartTime ("HH:MM" wall clock).
type Slot struct {
	StartTime string `bson:"start_time" json:"start_time"`
	EndTime   string `bson:"end_time" json:"end_time"`
	IsBooked  bool   `bson:"is_booked" json:"is_booked"`
	BookingID string `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
}

// AvailabilityDay is the full slot grid for one provider on one calendar
// date ("YYYY-MM-DD"). Unique per (provider, date); created lazily and
// never deleted.
type AvailabilityDay struct {
	ID          string    `bson:"id" json:"id"`
	ProviderID  string    `bson:"provider_id" json:"provider_id"`
	Date        string    `bson:"date" json:"date"`
	Slots       []Slot    `bson:"slots" json:"slots"`
	IsAvailable bool      `bson:"is_available" json:"is_available"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// BookedSlotRef identifies one booked slot for the reconciliation sweep.
type BookedSlotRef struct {
	ProviderID string `bson:"provider_id" json:"provider_id"`
	Date       string `bson:"date" json:"date"`
	StartTime  string `bson:"start_time" json:"start_time"`
	BookingID  string `bson:"booking_id" json:"booking_id"`
}
