package convstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sandipan1/hica/thread"
)

const defaultCacheTTL = 15 * time.Minute

// CachedStore wraps any Store with a Redis read-through cache, grounded
// on registry/service.go's use of *redis.Client for TTL bookkeeping. A
// cache miss or a Redis error falls through to the underlying store; a
// cache write or invalidation failure after a successful underlying
// operation is ignored (neither returned nor logged), since the
// underlying store is already the durable source of truth.
type CachedStore struct {
	underlying Store
	rdb        *redis.Client
	ttl        time.Duration
}

// NewCachedStore wraps underlying with a Redis cache. ttl <= 0 defaults
// to 15 minutes.
func NewCachedStore(underlying Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedStore{underlying: underlying, rdb: rdb, ttl: ttl}
}

func cacheKey(id string) string { return fmt.Sprintf("hica:thread:%s", id) }

// Set implements Store: writes through to the underlying store, then
// invalidates (rather than updates) the cache entry so the next Get
// repopulates it from the authoritative write.
func (c *CachedStore) Set(ctx context.Context, th *thread.Thread) error {
	if err := c.underlying.Set(ctx, th); err != nil {
		return err
	}
	c.rdb.Del(ctx, cacheKey(th.ThreadID))
	return nil
}

// Get implements Store: checks the cache first, falling through to the
// underlying store on a miss or any Redis error.
func (c *CachedStore) Get(ctx context.Context, id string) (*thread.Thread, error) {
	data, err := c.rdb.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		th, err := thread.FromSerialized(data)
		if err == nil {
			return th, nil
		}
	}

	th, err := c.underlying.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if serialized, mErr := th.ToSerialized(); mErr == nil {
		c.rdb.Set(ctx, cacheKey(id), serialized, c.ttl)
	}
	return th, nil
}

// Delete implements Store.
func (c *CachedStore) Delete(ctx context.Context, id string) error {
	if err := c.underlying.Delete(ctx, id); err != nil {
		return err
	}
	c.rdb.Del(ctx, cacheKey(id))
	return nil
}

// All implements Store: bypasses the cache entirely, since enumeration
// has no meaningful per-key cache entry to consult.
func (c *CachedStore) All(ctx context.Context) ([]*thread.Thread, error) {
	return c.underlying.All(ctx)
}
