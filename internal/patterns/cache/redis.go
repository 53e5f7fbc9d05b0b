package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/dup-analysis-backend/internal/patterns/domain"
	"github.com/redis/go-redis/v9"
)

const patternKeyPrefix = "dup:patterns:" // Per-file patterns keyed by content hash: dup:patterns:{hash}

// RedisPatternCache is the shared second tier of the pattern cache. Entries
// survive process restarts and are shared between workers analyzing
// overlapping file sets.
type RedisPatternCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPatternCache(client *redis.Client, ttl time.Duration) *RedisPatternCache {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &RedisPatternCache{client: client, ttl: ttl}
}

// Get returns the cached patterns for a content hash, or false on miss.
// Decode failures count as misses so a poisoned entry is simply recomputed.
func (c *RedisPatternCache) Get(ctx context.Context, contentHash string) ([]domain.Pattern, bool) {
	data, err := c.client.Get(ctx, c.patternKey(contentHash)).Result()
	if err != nil {
		return nil, false
	}

	var patterns []domain.Pattern
	if err := json.Unmarshal([]byte(data), &patterns); err != nil {
		return nil, false
	}
	return patterns, true
}

func (c *RedisPatternCache) Set(ctx context.Context, contentHash string, patterns []domain.Pattern) error {
	data, err := json.Marshal(patterns)
	if err != nil {
		return fmt.Errorf("marshal patterns: %w", err)
	}

	if err := c.client.Set(ctx, c.patternKey(contentHash), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache patterns: %w", err)
	}
	return nil
}

// Stats reports the backing database size. MaxSize is zero because eviction
// is delegated to Redis itself.
func (c *RedisPatternCache) Stats(ctx context.Context) Stats {
	size, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return Stats{}
	}
	return Stats{Size: int(size)}
}

func (c *RedisPatternCache) patternKey(contentHash string) string {
	return fmt.Sprintf("%s%s", patternKeyPrefix, contentHash)
}
