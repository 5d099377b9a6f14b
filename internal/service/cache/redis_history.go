package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"

	"github.com/redis/go-redis/v9"
)

const redisOpTimeout = 3 * time.Second

// RedisHistoryCache is a HistoryCache backed by Redis, for sharing the
// fetch cache across processes. Entries are JSON; Redis expiry enforces
// the TTL so no lazy eviction is needed here.
type RedisHistoryCache struct {
	client *redis.Client
	prefix string
}

// NewRedisHistoryCache creates a Redis-backed cache and pings the server.
func NewRedisHistoryCache(addr, password string, db int) (*RedisHistoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisHistoryCache{client: client, prefix: "marketpulse:history:"}, nil
}

func (c *RedisHistoryCache) Get(key string) (*Entry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// treat transport errors as a miss; callers refetch
			return nil, false
		}
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, false
	}
	return &e, true
}

func (c *RedisHistoryCache) Set(key string, series *models.AssetSeries, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := time.Now()
	e := Entry{Series: series, FetchedAt: now, ExpiresAt: now.Add(ttl)}
	b, err := json.Marshal(e)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	_ = c.client.Set(ctx, c.prefix+key, b, ttl).Err()
}

// Close closes the Redis connection.
func (c *RedisHistoryCache) Close() error {
	return c.client.Close()
}
