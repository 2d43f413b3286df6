package models

import "time"

// Notification is a persisted in-app notification. Delivery to push/email
// channels is handled by an external dispatcher and is best-effort.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	UserID    string            `bson:"user_id" json:"user_id"`
	Title     string            `bson:"title" json:"title"`
	Message   string            `bson:"message" json:"message"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}

// NotificationPayload is the queued delivery task body.
type NotificationPayload struct {
	NotificationID string            `json:"notificationId"`
	UserID         string            `json:"userId"`
	Title          string            `json:"title"`
	Body           string            `json:"body"`
	Data           map[string]string `json:"data,omitempty"`
}
