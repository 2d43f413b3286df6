package models

import "time"

// ParticipantReadStatus tracks one participant's read position in a
// conversation. UnreadCount is a derived cache; the message store plus
// LastReadAt is always the authority.
type ParticipantReadStatus struct {
	UserID            string    `bson:"user_id" json:"user_id"`
	LastReadMessageID string    `bson:"last_read_message_id,omitempty" json:"last_read_message_id,omitempty"`
	LastReadAt        time.Time `bson:"last_read_at" json:"last_read_at"`
	UnreadCount       int       `bson:"unread_count" json:"unread_count"`
}

// Conversation is a thread between two or more participants. At most one
// ParticipantReadStatus entry exists per participant.
type Conversation struct {
	ID            string                  `bson:"id" json:"id"`
	Participants  []string                `bson:"participants" json:"participants"`
	ReadStatus    []ParticipantReadStatus `bson:"read_status" json:"read_status"`
	LastMessage   string                  `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastMessageAt time.Time               `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	CreatedAt     time.Time               `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time               `bson:"updated_at" json:"updated_at"`
}

// ReadStatusFor returns the participant's read marker, if present.
func (c *Conversation) ReadStatusFor(userID string) (ParticipantReadStatus, bool) {
	for _, rs := range c.ReadStatus {
		if rs.UserID == userID {
			return rs, true
		}
	}
	return ParticipantReadStatus{}, false
}

// ConversationSummary is the listing view of a conversation. UnreadCount is
// recomputed per request and never served from cache.
type ConversationSummary struct {
	ID            string    `json:"id"`
	Participants  []string  `json:"participants"`
	LastMessage   string    `json:"last_message,omitempty"`
	LastMessageAt time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int       `json:"unread_count"`
}
