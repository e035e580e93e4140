package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs for the read-heavy public endpoints. Short on purpose: the feed is
// invalidated on every post mutation anyway, the TTL only bounds staleness
// when an invalidation is missed.
const (
	PostsTTL       = 30 * time.Second
	PopularTagsTTL = 5 * time.Minute
)

// PostsListKey is the cache key for a page of the public feed.
func PostsListKey(limit, offset int) string {
	return fmt.Sprintf("posts:list:%d:%d", limit, offset)
}

// PopularTagsKey is the cache key for the popular-tags aggregation.
func PopularTagsKey() string {
	return "posts:tags:popular"
}

// Aside implements the cache-aside pattern: on hit, dest is filled from the
// cached JSON; on miss, fill is called and its result is stored. A nil or
// failing Redis client falls through to fill.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fill func() error) error {
	if client == nil {
		return fill()
	}

	raw, err := client.Get(ctx, key).Result()
	if err == nil {
		if unmarshalErr := json.Unmarshal([]byte(raw), dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry; drop it and refill.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		// Redis unavailable; serve from the store.
		return fill()
	}

	if err := fill(); err != nil {
		return err
	}

	if data, marshalErr := json.Marshal(dest); marshalErr == nil {
		client.Set(ctx, key, data, ttl)
	}
	return nil
}

// InvalidatePosts drops every cached feed page and the popular-tags entry.
// Called after any post mutation.
func InvalidatePosts(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "posts:*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
