// Package realtime carries the event contract between the backend and the
// websocket edge. Events are published to per-user rooms over Redis pub/sub;
// the transport that fans them out to sockets lives outside this service.
package realtime

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Event names this backend produces.
const (
	EventNewMessage          = "newMessage"
	EventConversationUpdated = "conversationUpdated"
)

// Emitter publishes an event to a room. Implementations are best-effort;
// callers do not treat a failed emit as a failed operation.
type Emitter interface {
	Emit(ctx context.Context, room, event string, payload any)
}

// RoomForUser is the personal room every participant receives events on.
func RoomForUser(userID string) string {
	return "room:user:" + userID
}

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// RedisEmitter publishes events on Redis pub/sub channels named after rooms.
type RedisEmitter struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisEmitter constructs a RedisEmitter on the given client.
func NewRedisEmitter(client *redis.Client, logger *zap.Logger) *RedisEmitter {
	return &RedisEmitter{client: client, logger: logger}
}

// Emit publishes the event envelope; failures are logged and dropped.
func (e *RedisEmitter) Emit(ctx context.Context, room, event string, payload any) {
	data, err := json.Marshal(envelope{Event: event, Payload: payload})
	if err != nil {
		e.logger.Warn("realtime: marshal failed", zap.String("event", event), zap.Error(err))
		return
	}
	if err := e.client.Publish(ctx, room, data).Err(); err != nil {
		e.logger.Warn("realtime: publish failed",
			zap.String("room", room), zap.String("event", event), zap.Error(err))
	}
}
