package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harry-torres/gbarber-backend/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const notificationsCollection = "notifications"

type NotificationRepository struct {
	coll *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{coll: db.Collection(notificationsCollection)}
}

// EnsureIndexes создаёт индекс для ленты уведомлений получателя
func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notifications index: %w", err)
	}
	return nil
}

// Create сохраняет уведомление
func (r *NotificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	if _, err := r.coll.InsertOne(ctx, notification); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// ListByRecipient получает уведомления получателя, сначала новые
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*model.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	notifications := make([]*model.Notification, 0)
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	return notifications, nil
}

// MarkRead помечает уведомление получателя прочитанным и возвращает его.
// Возвращает nil, nil если уведомление не найдено или принадлежит другому получателю.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, recipientID int64, now time.Time) (*model.Notification, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var notification model.Notification
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "recipient_id": recipientID},
		bson.M{"$set": bson.M{"read": true, "updated_at": now}},
		opts,
	).Decode(&notification)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}

	return &notification, nil
}
