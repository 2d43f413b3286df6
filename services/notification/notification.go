package notification

import (
	"context"
	"encoding/json"

	notificationRepo "servana/database/repository/notification"
	"servana/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeNotificationDeliver is the asynq task type for queued delivery.
const TypeNotificationDeliver = "notification:deliver"

// DefaultNotificationService persists every notification and enqueues
// delivery on the task queue. Channel delivery (push/email/SMS) is handled
// by the worker's dispatcher; this side only records and hands off.
type DefaultNotificationService struct {
	Repo   notificationRepo.NotificationRepository
	Queue  *asynq.Client
	Logger *zap.Logger
}

// NewDefaultNotificationService constructs the production dispatcher. Queue
// may be nil, in which case notifications are persisted but not queued.
func NewDefaultNotificationService(repo notificationRepo.NotificationRepository, queue *asynq.Client, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{Repo: repo, Queue: queue, Logger: logger}
}

// Notify records the notification and enqueues delivery. Errors are logged
// and swallowed: notification failure must not roll back the caller.
func (s *DefaultNotificationService) Notify(ctx context.Context, userID, title, message string, data map[string]string) {
	n := &models.Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Warn("notification: persist failed",
			zap.String("user", userID), zap.Error(err))
		return
	}
	if s.Queue == nil {
		return
	}

	payload, err := json.Marshal(models.NotificationPayload{
		NotificationID: n.ID,
		UserID:         userID,
		Title:          title,
		Body:           message,
		Data:           data,
	})
	if err != nil {
		s.Logger.Warn("notification: marshal failed", zap.Error(err))
		return
	}
	if _, err := s.Queue.EnqueueContext(ctx, asynq.NewTask(TypeNotificationDeliver, payload)); err != nil {
		s.Logger.Warn("notification: enqueue failed",
			zap.String("user", userID), zap.Error(err))
	}
}
