package chatRepo

import (
	"context"
	"time"

	"servana/models"
)

// ChatRepository defines data access for conversations and messages.
type ChatRepository interface {
	// GetConversation retrieves a conversation by ID, or nil if absent.
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	// FindConversationByParticipants retrieves the conversation whose
	// participant set exactly matches, or nil.
	FindConversationByParticipants(ctx context.Context, participants []string) (*models.Conversation, error)
	// CreateConversation inserts a new conversation record.
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	// ListConversations retrieves a participant's conversations, most
	// recently active first.
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
	// TouchLastMessage updates the conversation's last-message snapshot and
	// bumps the cached unread count of every participant except the sender.
	TouchLastMessage(ctx context.Context, convID, senderID, content string, at time.Time) error
	// SetReadStatus replaces one participant's read marker.
	SetReadStatus(ctx context.Context, convID string, rs models.ParticipantReadStatus) error

	// CreateMessage inserts a new message record.
	CreateMessage(ctx context.Context, msg *models.Message) error
	// ListMessages retrieves messages in a conversation, oldest first, with
	// optional pagination.
	ListMessages(ctx context.Context, convID string, page, pageSize int) ([]models.Message, error)
	// LatestMessage returns the newest message in a conversation, or nil.
	LatestMessage(ctx context.Context, convID string) (*models.Message, error)
	// CountUnread counts messages created after since and not sent by userID.
	CountUnread(ctx context.Context, convID, userID string, since time.Time) (int, error)
	// MarkMessagesRead flags all of the sender's counterpart messages up to
	// now as read.
	MarkMessagesRead(ctx context.Context, convID, readerID string, at time.Time) error
}
