package chatRepo

import (
	"context"
	"fmt"
	"time"

	"servana/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoChatRepo implements ChatRepository using MongoDB.
type MongoChatRepo struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

// NewMongoChatRepo constructs a new instance of MongoChatRepo.
func NewMongoChatRepo(db *mongo.Database) *MongoChatRepo {
	return &MongoChatRepo{
		convColl: db.Collection("conversations"),
		msgColl:  db.Collection("messages"),
	}
}

func newContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 5*time.Second)
}

// GetConversation retrieves a conversation document by ID.
func (r *MongoChatRepo) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	var conv models.Conversation
	if err := r.convColl.FindOne(ctx, bson.M{"id": id}).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching conversation with id %s: %w", id, err)
	}
	return &conv, nil
}

// FindConversationByParticipants matches the participant set exactly,
// ignoring order.
func (r *MongoChatRepo) FindConversationByParticipants(ctx context.Context, participants []string) (*models.Conversation, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"participants": bson.M{
			"$all":  participants,
			"$size": len(participants),
		},
	}
	var conv models.Conversation
	if err := r.convColl.FindOne(ctx, filter).Decode(&conv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error finding conversation: %w", err)
	}
	return &conv, nil
}

// CreateConversation inserts a new conversation document.
func (r *MongoChatRepo) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	conv.CreatedAt = now
	conv.UpdatedAt = now

	if _, err := r.convColl.InsertOne(ctx, conv); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// ListConversations retrieves a participant's conversations, most recently
// active first.
func (r *MongoChatRepo) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := r.convColl.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var convs []models.Conversation
	if err := cursor.All(ctx, &convs); err != nil {
		return nil, fmt.Errorf("error decoding conversations: %w", err)
	}
	return convs, nil
}

// TouchLastMessage updates the last-message snapshot and increments every
// other participant's cached unread count in one document update.
func (r *MongoChatRepo) TouchLastMessage(ctx context.Context, convID, senderID, content string, at time.Time) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"last_message":    content,
			"last_message_at": at,
			"updated_at":      at,
		},
		"$inc": bson.M{
			"read_status.$[other].unread_count": 1,
		},
	}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"other.user_id": bson.M{"$ne": senderID}}},
	})

	res, err := r.convColl.UpdateOne(ctx, bson.M{"id": convID}, update, opts)
	if err != nil {
		return fmt.Errorf("failed to update conversation %s: %w", convID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("conversation with id %s not found", convID)
	}
	return nil
}

// SetReadStatus replaces one participant's read marker, inserting it if the
// participant has none yet.
func (r *MongoChatRepo) SetReadStatus(ctx context.Context, convID string, rs models.ParticipantReadStatus) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	// Replace in place when an entry exists.
	res, err := r.convColl.UpdateOne(ctx,
		bson.M{"id": convID, "read_status.user_id": rs.UserID},
		bson.M{"$set": bson.M{"read_status.$": rs}},
	)
	if err != nil {
		return fmt.Errorf("failed to set read status: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// First read marker for this participant. The filter excludes documents
	// that already carry one, so a racing writer cannot duplicate entries.
	res, err = r.convColl.UpdateOne(ctx,
		bson.M{"id": convID, "read_status.user_id": bson.M{"$ne": rs.UserID}},
		bson.M{"$push": bson.M{"read_status": rs}},
	)
	if err != nil {
		return fmt.Errorf("failed to add read status: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("conversation with id %s not found", convID)
	}
	return nil
}

// CreateMessage inserts a new message document.
func (r *MongoChatRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	if _, err := r.msgColl.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages retrieves a conversation's messages, oldest first.
func (r *MongoChatRepo) ListMessages(ctx context.Context, convID string, page, pageSize int) ([]models.Message, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * pageSize)).SetLimit(int64(pageSize))
	}

	cursor, err := r.msgColl.Find(ctx, bson.M{"conversation_id": convID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	defer cursor.Close(ctx)

	var msgs []models.Message
	if err := cursor.All(ctx, &msgs); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	return msgs, nil
}

// LatestMessage returns the newest message in a conversation.
func (r *MongoChatRepo) LatestMessage(ctx context.Context, convID string) (*models.Message, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var msg models.Message
	if err := r.msgColl.FindOne(ctx, bson.M{"conversation_id": convID}, opts).Decode(&msg); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching latest message: %w", err)
	}
	return &msg, nil
}

// CountUnread counts messages created after since and not sent by userID.
// This is the authoritative unread computation; the counter cached on the
// conversation is only a hint.
func (r *MongoChatRepo) CountUnread(ctx context.Context, convID, userID string, since time.Time) (int, error) {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"conversation_id": convID,
		"sender_id":       bson.M{"$ne": userID},
		"created_at":      bson.M{"$gt": since},
	}
	n, err := r.msgColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("error counting unread messages: %w", err)
	}
	return int(n), nil
}

// MarkMessagesRead flags all messages addressed to the reader as read.
func (r *MongoChatRepo) MarkMessagesRead(ctx context.Context, convID, readerID string, at time.Time) error {
	ctx, cancel := newContext(ctx)
	defer cancel()

	filter := bson.M{
		"conversation_id": convID,
		"sender_id":       bson.M{"$ne": readerID},
		"read":            false,
	}
	update := bson.M{"$set": bson.M{"read": true, "read_at": at}}
	if _, err := r.msgColl.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}
	return nil
}
