package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/PrazoCerto/pkg/errors"
)

var ErrLockNotHeld = errors.New(errors.ErrCodeConflict, "lock not held by this owner")

var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`)

// Mutex is a non-blocking, expiring lock owned by one process. Replicas use
// it so that only one of them purges shared cache entries per calendar
// change.
type Mutex struct {
	client *Client
	key    string
	value  string
	ttl    time.Duration
}

// NewMutex returns a lock named name that expires after ttl.
func NewMutex(client *Client, name string, ttl time.Duration) *Mutex {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Mutex{
		client: client,
		key:    "lock:" + name,
		value:  uuid.NewString(),
		ttl:    ttl,
	}
}

// TryLock acquires the lock if it is free.
func (m *Mutex) TryLock(ctx context.Context) (bool, error) {
	if m.client.isClosed() {
		return false, ErrClientClosed
	}
	ok, err := m.client.rdb.SetNX(ctx, m.key, m.value, m.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "redis setnx")
	}
	return ok, nil
}

// Unlock releases the lock if this Mutex still owns it.
func (m *Mutex) Unlock(ctx context.Context) error {
	if m.client.isClosed() {
		return ErrClientClosed
	}
	n, err := unlockScript.Run(ctx, m.client.rdb, []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis unlock")
	}
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

//Personal.AI order the ending
