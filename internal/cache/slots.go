package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/bookmyappointment/booking-api/internal/domain/booking"
)

// SlotCache is a short-lived redis cache of computed free slots. Every
// schedule mutation invalidates the affected business/date, so a stale
// entry can only survive for the TTL and only for reads, never for the
// locked reservation path.
type SlotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSlotCache returns nil when no redis URL is configured; a nil cache is
// safe to call and does nothing.
func NewSlotCache(redisURL string, logger *zap.Logger) *SlotCache {
	if redisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, slot cache disabled", zap.Error(err))
		return nil
	}

	return &SlotCache{
		rdb:    redis.NewClient(opts),
		ttl:    60 * time.Second,
		logger: logger,
	}
}

func slotKey(businessID uint, staffKey string, serviceID uint, date string) string {
	return fmt.Sprintf("slots:%d:%s:%d:%s", businessID, staffKey, serviceID, date)
}

func (c *SlotCache) Get(
	ctx context.Context,
	businessID uint,
	staffKey string,
	serviceID uint,
	date string,
) ([]booking.TimeSlot, bool) {

	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, slotKey(businessID, staffKey, serviceID, date)).Bytes()
	if err != nil {
		return nil, false
	}

	var slots []booking.TimeSlot
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *SlotCache) Set(
	ctx context.Context,
	businessID uint,
	staffKey string,
	serviceID uint,
	date string,
	slots []booking.TimeSlot,
) {

	if c == nil {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, slotKey(businessID, staffKey, serviceID, date), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("slot cache set failed", zap.Error(err))
	}
}

// InvalidateDay drops every cached slot list for a business/date, whatever
// staff or service it was computed for.
func (c *SlotCache) InvalidateDay(ctx context.Context, businessID uint, date string) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("slots:%d:*:%s", businessID, date)

	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("slot cache invalidate failed", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("slot cache scan failed", zap.Error(err))
	}
}
