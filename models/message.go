package models

import "time"

// MessageRetention is how long messages are kept before the TTL index
// purges them.
const MessageRetention = 90 * 24 * time.Hour

// Message is immutable once created except for its read/delivery fields.
type Message struct {
	ID             string     `bson:"id" json:"id"`
	ConversationID string     `bson:"conversation_id" json:"conversation_id"`
	SenderID       string     `bson:"sender_id" json:"sender_id"`
	RecipientID    string     `bson:"recipient_id" json:"recipient_id"`
	Content        string     `bson:"content" json:"content"`
	Delivered      bool       `bson:"delivered" json:"delivered"`
	Read           bool       `bson:"read" json:"read"`
	ReadAt         *time.Time `bson:"read_at,omitempty" json:"read_at,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
}
