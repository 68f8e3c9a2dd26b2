package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shop-backend/internal/domains/notification/model"
	"shop-backend/internal/domains/notification/repository"
	"shop-backend/internal/shared"
	"shop-backend/pkg/cache"
	"shop-backend/pkg/logger"
)

type NotificationService interface {
	shared.Notifier
	shared.Broadcaster

	List(ctx context.Context, userID uuid.UUID, req model.ListNotificationsRequest) ([]*model.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// Admin
	SendBroadcast(ctx context.Context, req model.BroadcastRequest) (*model.Notification, error)
}

const unreadCacheTTL = 5 * time.Minute

type notificationService struct {
	repo  repository.NotificationRepository
	cache cache.Cache
}

func NewNotificationService(repo repository.NotificationRepository, c cache.Cache) NotificationService {
	return &notificationService{repo: repo, cache: c}
}

func unreadKey(userID uuid.UUID) string {
	return fmt.Sprintf("notification:unread:%s", userID)
}

// =====================================================
// PRODUCERS (order, flash sale)
// =====================================================

func (s *notificationService) NotifyUser(ctx context.Context, userID uuid.UUID, title, content, link string) error {
	n := &model.Notification{
		UserID:  &userID,
		Type:    model.NotificationTypeSpecific,
		Title:   title,
		Content: content,
		Link:    link,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return model.NewNotificationError(model.ErrCodeInternal, "Failed to create notification", err)
	}
	s.invalidate(ctx, unreadKey(userID))
	return nil
}

func (s *notificationService) Broadcast(ctx context.Context, title, content, link string) error {
	_, err := s.broadcast(ctx, title, content, link)
	return err
}

func (s *notificationService) SendBroadcast(ctx context.Context, req model.BroadcastRequest) (*model.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewNotificationError(model.ErrCodeInvalidInput, err.Error(), nil)
	}
	return s.broadcast(ctx, req.Title, req.Content, req.Link)
}

func (s *notificationService) broadcast(ctx context.Context, title, content, link string) (*model.Notification, error) {
	n := &model.Notification{
		Type:    model.NotificationTypeGeneral,
		Title:   title,
		Content: content,
		Link:    link,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, model.NewNotificationError(model.ErrCodeInternal, "Failed to create notification", err)
	}

	// thông báo chung làm thay đổi unread của mọi user
	if err := s.cache.DeletePattern(ctx, "notification:unread:*"); err != nil {
		logger.Error("Failed to invalidate unread notification counters", err)
	}

	logger.Info("Broadcast notification", map[string]interface{}{
		"notification_id": n.ID,
		"title":           title,
	})
	return n, nil
}

// =====================================================
// USER
// =====================================================

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, req model.ListNotificationsRequest) ([]*model.Notification, int64, error) {
	req.Normalize()
	items, total, err := s.repo.ListForUser(ctx, userID, req.Limit, req.Offset())
	if err != nil {
		return nil, 0, model.NewNotificationError(model.ErrCodeInternal, "Failed to list notifications", err)
	}
	return items, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	key := unreadKey(userID)

	var cached int64
	if found, err := s.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, model.NewNotificationError(model.ErrCodeInternal, "Failed to count notifications", err)
	}

	if err := s.cache.Set(ctx, key, count, unreadCacheTTL); err != nil {
		logger.Debug(fmt.Sprintf("cache set %s failed: %v", key, err))
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if err := s.repo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, model.ErrNotificationNotFound) {
			return model.NewNotificationError(model.ErrCodeNotificationNotFound, "No notification found", err)
		}
		return model.NewNotificationError(model.ErrCodeInternal, "Failed to mark notification read", err)
	}
	s.invalidate(ctx, unreadKey(userID))
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return model.NewNotificationError(model.ErrCodeInternal, "Failed to mark notifications read", err)
	}
	s.invalidate(ctx, unreadKey(userID))
	return nil
}

func (s *notificationService) invalidate(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Debug(fmt.Sprintf("cache delete %s failed: %v", key, err))
	}
}
