package service

import (
	"context"
	"encoding/json"

	"rentalhub/internal/models"
	"rentalhub/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher pushes notification events to the message broker.
// Publishing is best effort: the stored notification row is the source of
// truth, the broker copy only feeds external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload any) error
}

// NotificationService persists in-app notifications and mirrors them to
// the broker. It satisfies Notifier for the approval paths.
type NotificationService struct {
	repo      *repository.Repository
	publisher EventPublisher
	log       *zap.Logger
}

func NewNotificationService(repo *repository.Repository, publisher EventPublisher, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, log: log}
}

func (s *NotificationService) Notify(ctx context.Context, recipient uuid.UUID, kind, title, message string, data map[string]any) error {
	var raw []byte
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return err
		}
		raw = b
	}

	n := models.Notification{
		UserID:  recipient,
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    raw,
	}
	if err := s.repo.Notifications.Create(ctx, &n); err != nil {
		return err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, recipient.String(), map[string]any{
			"notification_id": n.ID.String(),
			"user_id":         recipient.String(),
			"type":            kind,
			"title":           title,
			"message":         message,
			"data":            data,
		})
		if err != nil {
			s.log.Warn("notification event publish failed",
				zap.String("notification_id", n.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func (s *NotificationService) ListMine(ctx context.Context, limit int) ([]models.Notification, error) {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Notifications.ListByUser(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	userID, _, err := requireAuth(ctx)
	if err != nil {
		return err
	}
	ok, err := s.repo.Notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
