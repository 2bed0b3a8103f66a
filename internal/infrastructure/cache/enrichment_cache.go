package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rakuda/backend/internal/domain/enrichment"
)

const enrichmentKeyPrefix = "enrichment:ai:"

// RedisEnrichmentCache stores combined classifier responses in Redis so
// identical listings skip the AI call. Cache failures are logged and
// treated as misses; the pipeline never depends on the cache being up.
type RedisEnrichmentCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisEnrichmentCache creates a cache with the given TTL.
func NewRedisEnrichmentCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisEnrichmentCache {
	return &RedisEnrichmentCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("enrichment-cache"),
	}
}

// Get looks up a cached enrichment for the listing.
func (c *RedisEnrichmentCache) Get(ctx context.Context, title, description, category string) (*enrichment.ListingEnrichment, bool) {
	payload, err := c.client.Get(ctx, cacheKey(title, description, category)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var result enrichment.ListingEnrichment
	if err := json.Unmarshal(payload, &result); err != nil {
		c.logger.Warn("cache entry corrupted, discarding", zap.Error(err))
		return nil, false
	}
	return &result, true
}

// Set stores an enrichment response for the listing.
func (c *RedisEnrichmentCache) Set(ctx context.Context, title, description, category string, result *enrichment.ListingEnrichment) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, cacheKey(title, description, category), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
}

// cacheKey hashes the listing text so arbitrarily long titles and
// descriptions map to a fixed-size key. The NUL separator keeps
// ("ab","c") and ("a","bc") from colliding.
func cacheKey(title, description, category string) string {
	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(description))
	h.Write([]byte{0})
	h.Write([]byte(category))
	return enrichmentKeyPrefix + hex.EncodeToString(h.Sum(nil))
}
