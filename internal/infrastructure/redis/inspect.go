package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// UserCachePrefix namespaces every key written by CachedUserRepo.
const UserCachePrefix = "account:user:"

type CacheEntry struct {
	Key   string
	TTL   time.Duration
	Value string
}

// ScanUserCache walks the cached user rows matching UserCachePrefix+pattern
// and calls fn for each. With purge set every visited key is deleted.
// Returns the number of keys visited.
func (c *Client) ScanUserCache(ctx context.Context, pattern string, count int64, purge bool, fn func(CacheEntry)) (int, error) {
	if pattern == "" {
		pattern = "*"
	}
	match := UserCachePrefix + pattern

	var cursor uint64
	total := 0
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, match, count).Result()
		if err != nil {
			return total, err
		}

		for _, k := range keys {
			val, err := c.rdb.Get(ctx, k).Result()
			if errors.Is(err, goredis.Nil) {
				continue // expired between SCAN and GET
			}
			if err != nil {
				return total, err
			}
			ttl, err := c.rdb.TTL(ctx, k).Result()
			if err != nil {
				return total, err
			}

			total++
			if fn != nil {
				fn(CacheEntry{Key: k, TTL: ttl, Value: val})
			}
			if purge {
				if err := c.rdb.Del(ctx, k).Err(); err != nil {
					return total, err
				}
			}
		}

		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}
