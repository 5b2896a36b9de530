package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

var ErrCacheMiss = errors.New(errors.ErrCodeNotFound, "cache miss")

// Cache is the key/value contract the application layer depends on.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
}

type redisCache struct {
	client     *Client
	logger     logging.Logger
	prefix     string
	defaultTTL time.Duration
	scanBatch  int64
}

// CacheOption configures NewRedisCache.
type CacheOption func(*redisCache)

func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// NewRedisCache returns a JSON cache whose keys all start with the configured
// prefix ("prazo:" by default).
func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{
		client:     client,
		logger:     log,
		prefix:     "prazo:",
		defaultTTL: 24 * time.Hour,
		scanBatch:  500,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expirations by +/- 10%.
func jitterTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client.isClosed() {
		return ErrClientClosed
	}
	data, err := c.client.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis get")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "decode cached value")
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client.isClosed() {
		return ErrClientClosed
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode cached value")
	}
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.rdb.Set(ctx, c.fullKey(key), data, jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis set")
	}
	return nil
}

// DeleteByPrefix removes every key under prefix with SCAN + DEL and returns
// the number of keys removed.
func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	if c.client.isClosed() {
		return 0, ErrClientClosed
	}
	var (
		cursor  uint64
		deleted int64
		pattern = c.fullKey(prefix) + "*"
	)
	for {
		keys, next, err := c.client.rdb.Scan(ctx, cursor, pattern, c.scanBatch).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "redis scan")
		}
		if len(keys) > 0 {
			n, err := c.client.rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "redis del")
			}
			deleted += n
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	c.logger.Debug("redis prefix purged", logging.String("pattern", pattern), logging.Int64("deleted", deleted))
	return deleted, nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

//Personal.AI order the ending
