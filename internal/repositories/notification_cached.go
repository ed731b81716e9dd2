package repositories

import (
	"context"
	"time"

	"github.com/wavegram/backend/internal/cache"
	"github.com/wavegram/backend/internal/models"
	"github.com/wavegram/backend/pkg/logger"
)

// cachedNotificationRepository decorates a NotificationRepository with the
// Redis unread counter. Cache failures degrade to SQL, never to an error.
type cachedNotificationRepository struct {
	NotificationRepository
	cache *cache.NotificationCache
}

func NewCachedNotificationRepository(inner NotificationRepository, c *cache.NotificationCache) NotificationRepository {
	return &cachedNotificationRepository{NotificationRepository: inner, cache: c}
}

func (r *cachedNotificationRepository) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 2*time.Second)
}

func (r *cachedNotificationRepository) CreateNotification(n *models.Notification) error {
	if err := r.NotificationRepository.CreateNotification(n); err != nil {
		return err
	}
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.cache.IncrUnread(ctx, n.RecipientID); err != nil {
		logger.Warn("incrementing unread counter", "recipient_id", n.RecipientID, "error", err)
	}
	return nil
}

func (r *cachedNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	if count, ok, err := r.cache.GetUnread(ctx, recipientID); err == nil && ok {
		return count, nil
	}

	count, err := r.NotificationRepository.GetUnreadCount(recipientID)
	if err != nil {
		return 0, err
	}
	if err := r.cache.SetUnread(ctx, recipientID, count); err != nil {
		logger.Warn("caching unread counter", "recipient_id", recipientID, "error", err)
	}
	return count, nil
}

func (r *cachedNotificationRepository) MarkAsRead(recipientID, notificationID uint) error {
	if err := r.NotificationRepository.MarkAsRead(recipientID, notificationID); err != nil {
		return err
	}
	r.invalidate(recipientID)
	return nil
}

func (r *cachedNotificationRepository) MarkAllAsRead(recipientID uint) error {
	if err := r.NotificationRepository.MarkAllAsRead(recipientID); err != nil {
		return err
	}
	r.invalidate(recipientID)
	return nil
}

func (r *cachedNotificationRepository) invalidate(recipientID uint) {
	ctx, cancel := r.ctx()
	defer cancel()
	if err := r.cache.Invalidate(ctx, recipientID); err != nil {
		logger.Warn("invalidating unread counter", "recipient_id", recipientID, "error", err)
	}
}
