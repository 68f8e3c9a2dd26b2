package repository

import (
	"context"

	"github.com/google/uuid"

	"shop-backend/internal/domains/notification/model"
)

// NotificationRepository: mọi truy vấn theo user đều gồm cả thông báo General
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead trả về ErrNotificationNotFound nếu user không nhìn thấy thông báo
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
