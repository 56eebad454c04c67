package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/harry-torres/gbarber-backend/internal/model"
	"go.uber.org/zap"
)

// NotificationFeedLimit сколько последних уведомлений отдаётся провайдеру
const NotificationFeedLimit = 20

type NotificationService struct {
	notificationRepo NotificationRepository
	userRepo         UserRepository
	clock            Clock
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo NotificationRepository,
	userRepo UserRepository,
	clock Clock,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		clock:            clock,
		logger:           logger,
	}
}

// Append создаёт непрочитанное уведомление для получателя
func (s *NotificationService) Append(ctx context.Context, recipientID int64, content string) (*model.Notification, error) {
	now := s.clock()

	// UUIDv7 упорядочен по времени, поэтому сортировка по _id повторяет порядок вставки
	id, err := uuid.NewV7()
	if err != nil {
		return nil, internalError("generate notification id", err)
	}

	notification := &model.Notification{
		ID:          id.String(),
		RecipientID: recipientID,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, internalError("create notification", err)
	}

	s.logger.Debug("Notification created",
		zap.String("notification_id", notification.ID),
		zap.Int64("recipient_id", recipientID),
	)

	return notification, nil
}

// ListFor возвращает последние уведомления провайдера, сначала новые
func (s *NotificationService) ListFor(ctx context.Context, requesterID int64) ([]*model.Notification, error) {
	if _, err := requireProvider(ctx, s.userRepo, requesterID); err != nil {
		return nil, err
	}

	notifications, err := s.notificationRepo.ListByRecipient(ctx, requesterID, NotificationFeedLimit)
	if err != nil {
		s.logger.Error("Failed to list notifications",
			zap.Int64("recipient_id", requesterID),
			zap.Error(err),
		)
		return nil, internalError("list notifications", err)
	}

	return notifications, nil
}

// MarkRead помечает уведомление прочитанным. Повторный вызов ничего не меняет.
func (s *NotificationService) MarkRead(ctx context.Context, requesterID int64, id string) (*model.Notification, error) {
	if _, err := requireProvider(ctx, s.userRepo, requesterID); err != nil {
		return nil, err
	}

	notification, err := s.notificationRepo.MarkRead(ctx, id, requesterID, s.clock())
	if err != nil {
		s.logger.Error("Failed to mark notification read",
			zap.String("notification_id", id),
			zap.Error(err),
		)
		return nil, internalError("mark notification read", err)
	}

	if notification == nil {
		return nil, ErrNotFound
	}

	return notification, nil
}
