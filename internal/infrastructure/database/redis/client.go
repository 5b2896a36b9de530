// Package redis provides the Redis client, the second-level result cache and
// a single-owner lock used to coordinate cache purges across replicas.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/PrazoCerto/internal/config"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeCacheError, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeCacheError, "redis connection failed")
)

// Client wraps a go-redis universal client.
type Client struct {
	rdb    redis.UniversalClient
	mode   string
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient connects according to cfg.Mode and pings the server.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	dial, read, write := cfg.DialTimeout, cfg.ReadTimeout, cfg.WriteTimeout
	if dial == 0 {
		dial = 5 * time.Second
	}
	if read == 0 {
		read = 3 * time.Second
	}
	if write == 0 {
		write = 3 * time.Second
	}

	var rdb redis.UniversalClient
	switch cfg.Mode {
	case "cluster":
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        cfg.Addrs,
			Password:     cfg.Password,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  dial,
			ReadTimeout:  read,
			WriteTimeout: write,
		})
	case "sentinel":
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.Addrs,
			Password:      cfg.Password,
			DB:            cfg.DB,
			PoolSize:      cfg.PoolSize,
			DialTimeout:   dial,
			ReadTimeout:   read,
			WriteTimeout:  write,
		})
	default:
		if cfg.Mode != "" && cfg.Mode != "standalone" {
			log.Warn("unknown redis mode, using standalone", logging.String("mode", cfg.Mode))
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     cfg.PoolSize,
			DialTimeout:  dial,
			ReadTimeout:  read,
			WriteTimeout: write,
		})
	}

	c := &Client{rdb: rdb, mode: cfg.Mode, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), dial)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err)
	}

	log.Info("redis client connected", logging.String("mode", cfg.Mode), logging.String("addr", cfg.Addr))
	return c, nil
}

// NewClientFromUniversal wraps an existing client, mainly for tests.
func NewClientFromUniversal(rdb redis.UniversalClient, log logging.Logger) *Client {
	return &Client{rdb: rdb, mode: "standalone", logger: log}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	return c.rdb.Ping(ctx).Err()
}

// Close is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	err := c.rdb.Close()
	if err != nil {
		c.logger.Error("failed to close redis client", logging.Err(err))
		return err
	}
	c.logger.Info("redis client closed")
	return nil
}

// Underlying exposes the go-redis client.
func (c *Client) Underlying() redis.UniversalClient {
	return c.rdb
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

//Personal.AI order the ending
