package chat

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"servana/cache"
	chatRepo "servana/database/repository/chat"
	"servana/models"
	"servana/realtime"
	"servana/services/notification"
	"servana/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultChatService implements Service on the Mongo chat repository.
// Listing responses are cached user-scoped under the conversations topic;
// the unread count inside each summary is recomputed from the message store
// on every request, so a stale cached counter is never served.
type DefaultChatService struct {
	Repo         chatRepo.ChatRepository
	Cache        *cache.Store
	CacheTTL     time.Duration
	Emitter      realtime.Emitter
	Notification notification.Service
	Logger       *zap.Logger
}

// GetOrCreateConversation finds the conversation whose participant set
// exactly matches, creating it on first contact. Participant order does not
// matter and duplicates collapse.
func (s *DefaultChatService) GetOrCreateConversation(ctx context.Context, participants []string) (*models.Conversation, error) {
	unique := dedupe(participants)
	if len(unique) < 2 {
		return nil, utils.NewValidationError("a conversation needs at least two distinct participants")
	}

	conv, err := s.Repo.FindConversationByParticipants(ctx, unique)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	now := time.Now().UTC()
	conv = &models.Conversation{
		ID:           uuid.New().String(),
		Participants: unique,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, p := range unique {
		conv.ReadStatus = append(conv.ReadStatus, models.ParticipantReadStatus{
			UserID:     p,
			LastReadAt: now,
		})
	}
	if err := s.Repo.CreateConversation(ctx, conv); err != nil {
		// Lost a creation race: the other writer's document wins.
		if existing, ferr := s.Repo.FindConversationByParticipants(ctx, unique); ferr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	s.Cache.Invalidate(ctx, cache.TopicConversations)
	return conv, nil
}

// SendMessage persists the message, updates the conversation's last-message
// snapshot and unread counters, and fans the event out to every participant
// room. Realtime and notification delivery are best-effort.
func (s *DefaultChatService) SendMessage(ctx context.Context, conversationID, senderID, content string) (*models.Message, error) {
	if content == "" {
		return nil, utils.NewValidationError("message content is required")
	}
	conv, err := s.mustGetConversation(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &models.Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      now,
	}
	if len(conv.Participants) == 2 {
		for _, p := range conv.Participants {
			if p != senderID {
				msg.RecipientID = p
			}
		}
	}

	if err := s.Repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.Repo.TouchLastMessage(ctx, conv.ID, senderID, content, now); err != nil {
		s.Logger.Warn("chat: last-message update failed",
			zap.String("conversation", conv.ID), zap.Error(err))
	}
	s.Cache.Invalidate(ctx, cache.TopicConversations)

	for _, p := range conv.Participants {
		room := realtime.RoomForUser(p)
		s.Emitter.Emit(ctx, room, realtime.EventNewMessage, msg)
		s.Emitter.Emit(ctx, room, realtime.EventConversationUpdated, map[string]any{
			"conversationId": conv.ID,
			"lastMessage":    content,
			"lastMessageAt":  now,
		})
		if p != senderID {
			s.Notification.Notify(ctx, p, "New message", content,
				map[string]string{"conversationId": conv.ID})
		}
	}

	return msg, nil
}

// MarkRead advances the reader's marker to the newest message, zeroes their
// unread counter and flags counterpart messages as read.
func (s *DefaultChatService) MarkRead(ctx context.Context, conversationID, userID string) error {
	conv, err := s.mustGetConversation(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rs := models.ParticipantReadStatus{
		UserID:     userID,
		LastReadAt: now,
	}
	latest, err := s.Repo.LatestMessage(ctx, conv.ID)
	if err != nil {
		return err
	}
	if latest != nil {
		rs.LastReadMessageID = latest.ID
	}

	if err := s.Repo.SetReadStatus(ctx, conv.ID, rs); err != nil {
		return err
	}
	if err := s.Repo.MarkMessagesRead(ctx, conv.ID, userID, now); err != nil {
		s.Logger.Warn("chat: message read flags not updated",
			zap.String("conversation", conv.ID), zap.Error(err))
	}
	s.Cache.Invalidate(ctx, cache.TopicConversations)

	for _, p := range conv.Participants {
		s.Emitter.Emit(ctx, realtime.RoomForUser(p), realtime.EventConversationUpdated, map[string]any{
			"conversationId": conv.ID,
			"readBy":         userID,
			"readAt":         now,
		})
	}
	return nil
}

// ListConversations serves the user's conversation summaries. The
// conversation documents come through the read-through cache, but each
// unread count is recomputed against the message store afterwards; a cache
// hit never short-circuits that recomputation.
func (s *DefaultChatService) ListConversations(ctx context.Context, userID string, params url.Values) ([]models.ConversationSummary, error) {
	key := cache.ListingKey(cache.TopicConversations, params, userID)
	convs, _, err := cache.WithCache(ctx, s.Cache, key, s.CacheTTL,
		func(ctx context.Context) ([]models.Conversation, error) {
			return s.Repo.ListConversations(ctx, userID)
		})
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		rs, _ := conv.ReadStatusFor(userID)
		unread, err := s.Repo.CountUnread(ctx, conv.ID, userID, rs.LastReadAt)
		if err != nil {
			// Fall back to the stored counter, which may lag.
			s.Logger.Warn("chat: unread recount failed",
				zap.String("conversation", conv.ID), zap.Error(err))
			unread = rs.UnreadCount
		}
		summaries = append(summaries, models.ConversationSummary{
			ID:            conv.ID,
			Participants:  conv.Participants,
			LastMessage:   conv.LastMessage,
			LastMessageAt: conv.LastMessageAt,
			UnreadCount:   unread,
		})
	}
	return summaries, nil
}

// ListMessages returns a conversation's messages, oldest first, for one of
// its participants.
func (s *DefaultChatService) ListMessages(ctx context.Context, conversationID, userID string, page, pageSize int) ([]models.Message, error) {
	if _, err := s.mustGetConversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.Repo.ListMessages(ctx, conversationID, page, pageSize)
}

func (s *DefaultChatService) mustGetConversation(ctx context.Context, conversationID, actorID string) (*models.Conversation, error) {
	conv, err := s.Repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("conversation %s not found", conversationID))
	}
	for _, p := range conv.Participants {
		if p == actorID {
			return conv, nil
		}
	}
	return nil, utils.NewForbiddenError("not a participant in this conversation")
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
