package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const unreadTTL = time.Hour

// NotificationCache keeps per-user unread-notification counters in Redis.
// Every value carries a TTL so a stale counter self-heals from SQL.
type NotificationCache struct {
	Client *redis.Client
}

func NewNotificationCache(client *redis.Client) *NotificationCache {
	return &NotificationCache{Client: client}
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

// GetUnread returns the cached count and whether it was present.
func (c *NotificationCache) GetUnread(ctx context.Context, userID uint) (int64, bool, error) {
	val, err := c.Client.Get(ctx, unreadKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return count, true, nil
}

// SetUnread stores the count with a fresh TTL.
func (c *NotificationCache) SetUnread(ctx context.Context, userID uint, count int64) error {
	return c.Client.Set(ctx, unreadKey(userID), count, unreadTTL).Err()
}

// IncrUnread bumps the counter only when it already exists; a miss stays a
// miss until the next SQL read repopulates it.
func (c *NotificationCache) IncrUnread(ctx context.Context, userID uint) error {
	key := unreadKey(userID)
	ok, err := c.Client.Expire(ctx, key, unreadTTL).Result()
	if err != nil || !ok {
		return err
	}
	return c.Client.Incr(ctx, key).Err()
}

// Invalidate drops the counter, e.g. after marking notifications read.
func (c *NotificationCache) Invalidate(ctx context.Context, userID uint) error {
	return c.Client.Del(ctx, unreadKey(userID)).Err()
}
