package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// AvailabilityCache keeps per-instrument availability totals in Redis.
// Misses and Redis errors both fall through to the database; the TTL
// bounds how stale a cached total can get after an uncached mutation.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewAvailabilityCache(addr, password string, db int, ttl time.Duration, log *zap.Logger) (*AvailabilityCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Redis connected successfully", zap.String("addr", addr))

	return &AvailabilityCache{
		client: rdb,
		ttl:    ttl,
		log:    log,
	}, nil
}

func (c *AvailabilityCache) Close() error {
	return c.client.Close()
}

func availabilityKey(instrumentID uuid.UUID) string {
	return fmt.Sprintf("availability:%s", instrumentID)
}

func (c *AvailabilityCache) Get(ctx context.Context, instrumentID uuid.UUID) (int32, bool) {
	val, err := c.client.Get(ctx, availabilityKey(instrumentID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("availability cache read failed", zap.Error(err))
		}
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

func (c *AvailabilityCache) Set(ctx context.Context, instrumentID uuid.UUID, qty int32) {
	err := c.client.Set(ctx, availabilityKey(instrumentID), int64(qty), c.ttl).Err()
	if err != nil {
		c.log.Warn("availability cache write failed", zap.Error(err))
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, instrumentID uuid.UUID) {
	err := c.client.Del(ctx, availabilityKey(instrumentID)).Err()
	if err != nil {
		c.log.Warn("availability cache invalidation failed", zap.Error(err))
	}
}
