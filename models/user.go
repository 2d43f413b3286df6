package models

import "time"

// User roles.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
)

// User represents a marketplace account. Providers are users with
// RoleProvider; their aggregate rating is maintained by the booking service.
type User struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email" json:"email"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role        string    `bson:"role" json:"role"`
	Rating      float64   `bson:"rating,omitempty" json:"rating,omitempty"`
	RatingCount int       `bson:"rating_count,omitempty" json:"rating_count,omitempty"`
	FCMToken    string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}
