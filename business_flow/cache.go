package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resolutionCacheTTL = 5 * time.Minute

// ResolutionCache caches per-post resolution results in Redis. Every blob
// write bumps the page generation counter, which is part of each cache key,
// so stale entries become unreachable without explicit invalidation. A nil
// client disables caching entirely.
type ResolutionCache struct {
	client *redis.Client
}

// NewResolutionCache creates a resolution cache; client may be nil.
func NewResolutionCache(client *redis.Client) *ResolutionCache {
	return &ResolutionCache{client: client}
}

func (c *ResolutionCache) generation(ctx context.Context, pageUUID string) int64 {
	if c.client == nil {
		return 0
	}
	gen, err := c.client.Get(ctx, "page_gen:"+pageUUID).Int64()
	if err != nil {
		return 0
	}
	return gen
}

// Bump advances the page generation, invalidating all cached resolutions of
// the page. Errors are swallowed: the cache is best-effort.
func (c *ResolutionCache) Bump(ctx context.Context, pageUUID string) {
	if c.client == nil {
		return
	}
	c.client.Incr(ctx, "page_gen:"+pageUUID)
}

func (c *ResolutionCache) key(kind, pageUUID, postUUID string, gen int64) string {
	return fmt.Sprintf("%s_resolution:%s:%d:%s", kind, pageUUID, gen, postUUID)
}

// Get loads a cached resolution into dest, reporting whether it was found.
func (c *ResolutionCache) Get(ctx context.Context, kind, pageUUID, postUUID string, dest any) bool {
	if c.client == nil {
		return false
	}
	gen := c.generation(ctx, pageUUID)
	raw, err := c.client.Get(ctx, c.key(kind, pageUUID, postUUID, gen)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a resolution result under the page's current generation.
func (c *ResolutionCache) Set(ctx context.Context, kind, pageUUID, postUUID string, value any) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	gen := c.generation(ctx, pageUUID)
	c.client.Set(ctx, c.key(kind, pageUUID, postUUID, gen), raw, resolutionCacheTTL)
}
