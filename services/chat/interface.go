package chat

import (
	"context"
	"net/url"

	"servana/models"
)

// Service is the conversation and message layer: thread lookup/creation,
// message delivery with realtime fan-out, and the per-participant read
// tracker behind unread counts.
type Service interface {
	// GetOrCreateConversation returns the existing conversation for the
	// exact participant set, creating it on first contact.
	GetOrCreateConversation(ctx context.Context, participants []string) (*models.Conversation, error)
	// SendMessage appends a message to a conversation on behalf of senderID.
	SendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error)
	// MarkRead moves userID's read marker to the newest message and zeroes
	// their unread count.
	MarkRead(ctx context.Context, conversationID, userID string) error
	// ListConversations returns the user's conversations as summaries.
	// Unread counts are recomputed from the message store on every call.
	ListConversations(ctx context.Context, userID string, params url.Values) ([]models.ConversationSummary, error)
	// ListMessages returns a conversation's messages, oldest first.
	ListMessages(ctx context.Context, conversationID, userID string, page, pageSize int) ([]models.Message, error)
}
