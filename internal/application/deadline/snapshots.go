package deadline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/PrazoCerto/internal/domain/calendar"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/PrazoCerto/pkg/types/common"
)

// SnapshotCache loads calendar snapshots through a bounded LRU. Windows are
// widened to whole calendar years so that nearby requests share an entry,
// and concurrent misses for one key trigger a single store read.
type SnapshotCache struct {
	store     calendar.Store
	storeName string
	cache     *lru.Cache[string, *calendar.Snapshot]
	group     singleflight.Group
	// generation is bumped by Purge; loads started before a purge do not
	// repopulate the cache.
	generation atomic.Uint64
	metrics    *prometheus.AppMetrics
	logger     logging.Logger
}

// NewSnapshotCache returns a cache holding at most size snapshots.
func NewSnapshotCache(store calendar.Store, storeName string, size int, metrics *prometheus.AppMetrics, log logging.Logger) (*SnapshotCache, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[string, *calendar.Snapshot](size)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}
	return &SnapshotCache{
		store:     store,
		storeName: storeName,
		cache:     c,
		metrics:   metrics,
		logger:    log,
	}, nil
}

// yearWindow widens [from, to] to Jan 1 of from's year through Dec 31 of
// to's year.
func yearWindow(from, to common.Date) (common.Date, common.Date) {
	return common.NewDate(from.Year(), time.January, 1), common.NewDate(to.Year(), time.December, 31)
}

func snapshotKey(court calendar.Court, from, to common.Date) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", calendar.NormalizeCode(court.Code), court.UF, court.Tier, from, to)
}

// Snapshot implements conflict.SnapshotProvider.
func (c *SnapshotCache) Snapshot(ctx context.Context, court calendar.Court, from, to common.Date) (*calendar.Snapshot, error) {
	from, to = yearWindow(from, to)
	key := snapshotKey(court, from, to)
	if snap, ok := c.cache.Get(key); ok {
		prometheus.RecordCacheAccess(c.metrics, "snapshot", true)
		return snap, nil
	}
	prometheus.RecordCacheAccess(c.metrics, "snapshot", false)

	gen := c.generation.Load()
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		start := time.Now()
		snap, err := calendar.LoadSnapshot(ctx, c.store, court, from, to)
		prometheus.RecordSnapshotLoad(c.metrics, c.storeName, court.Code, err, time.Since(start))
		if err != nil {
			return nil, err
		}
		if c.generation.Load() == gen {
			c.cache.Add(key, snap)
		}
		c.logger.Debug("calendar snapshot loaded",
			logging.String("court", court.String()),
			logging.String("from", from.String()),
			logging.String("to", to.String()),
			logging.String("version", snap.Version()),
			logging.Int("holidays", len(snap.Holidays())))
		return snap, nil
	})
	if err != nil {
		c.logger.Warn("calendar snapshot load failed", logging.String("court", court.Code), logging.Err(err))
		return nil, err
	}
	return v.(*calendar.Snapshot), nil
}

// Purge drops every cached snapshot.
func (c *SnapshotCache) Purge() {
	c.generation.Add(1)
	c.cache.Purge()
}

// Len returns the number of cached snapshots.
func (c *SnapshotCache) Len() int {
	return c.cache.Len()
}

//Personal.AI order the ending
