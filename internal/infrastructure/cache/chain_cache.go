// Package cache is the optional Redis read-through layer sitting in front
// of the dependency resolver and the prepared-instance façade: chain
// responses and describe_prepared details, invalidated on writes rather
// than left to expire blindly.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/logging"
)

const defaultTTL = 5 * time.Minute

// ChainCache wraps a redis.Client. A nil *ChainCache is valid and behaves
// as an always-miss cache, so callers can wire it unconditionally and skip
// it entirely when REDIS_HOST is unset.
type ChainCache struct {
	rdb *redis.Client
}

// New connects to addr/db. addr == "" means caching is disabled.
func New(addr string, db int) *ChainCache {
	if addr == "" {
		return nil
	}
	return &ChainCache{rdb: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

func chainKey(assetID, direction string, maxDepth int) string {
	return fmt.Sprintf("chain:%s:%s:%d", assetID, direction, maxDepth)
}

func instanceKey(instanceID string) string {
	return fmt.Sprintf("instance:%s", instanceID)
}

// GetChain returns a cached chain result, unmarshaled into dest. ok is
// false on a miss or when caching is disabled.
func (c *ChainCache) GetChain(ctx context.Context, assetID, direction string, maxDepth int, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, chainKey(assetID, direction, maxDepth)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Warning("chain cache get failed: %v", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		logging.Warning("chain cache decode failed: %v", err)
		return false
	}
	return true
}

// PutChain stores a chain result with the default TTL. Failures are logged
// and otherwise ignored: the cache is an optimization, never a correctness
// dependency.
func (c *ChainCache) PutChain(ctx context.Context, assetID, direction string, maxDepth int, value interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logging.Warning("chain cache encode failed: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, chainKey(assetID, direction, maxDepth), raw, defaultTTL).Err(); err != nil {
		logging.Warning("chain cache set failed: %v", err)
	}
}

// InvalidateAllChains drops every cached chain response. Called after any
// dependency-edge write, since a single edge change can affect an unbounded
// number of chain keys and the cache has no edge index to target
// precisely.
func (c *ChainCache) InvalidateAllChains(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, "chain:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			logging.Warning("chain cache invalidate failed for %s: %v", iter.Val(), err)
		}
	}
}

// GetInstance/PutInstance mirror a describe_prepared detail so repeated
// lookups of the same instance don't always hit the store.
func (c *ChainCache) GetInstance(ctx context.Context, instanceID string, dest interface{}) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, instanceKey(instanceID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *ChainCache) PutInstance(ctx context.Context, instanceID string, value interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, instanceKey(instanceID), raw, defaultTTL)
}

// Close releases the underlying Redis connection.
func (c *ChainCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
