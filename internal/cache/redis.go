// Package cache provides a Redis-backed response cache for the fetcher.
// Category-tree pages are fetched once per strategy but shared across
// processes; caching them with a short TTL keeps repeated runs off the
// target site without persisting any harvest state.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type redisCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisCache(redisClient *redis.Client, ttl time.Duration) *redisCache {
	return &redisCache{
		redisClient: redisClient,
		keyPrefix:   "harvester:response:",
		ttl:         ttl,
	}
}

func (c *redisCache) Get(ctx context.Context, url string) ([]byte, bool) {
	val, err := c.redisClient.Get(ctx, c.keyPrefix+url).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debugf("Cache read failed for %s: %v", url, err)
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, url string, body []byte) {
	if err := c.redisClient.Set(ctx, c.keyPrefix+url, body, c.ttl).Err(); err != nil {
		// Cache failures never fail a fetch.
		log.Debugf("Cache write failed for %s: %v", url, err)
	}
}
