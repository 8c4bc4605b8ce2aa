// Command user_cache_debug lists or purges the Redis user cache, e.g. after
// editing users directly in Postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/baechuer/account-service/internal/infrastructure/redis"
)

func main() {
	var (
		addr    = flag.String("addr", "127.0.0.1:6379", "redis address host:port")
		pass    = flag.String("pass", "", "redis password")
		db      = flag.Int("db", 0, "redis db")
		pattern = flag.String("pattern", "*", "key pattern after the cache prefix, e.g. username:alice")
		doDel   = flag.Bool("del", false, "delete matched keys")
		count   = flag.Int64("count", 200, "SCAN COUNT hint")
		timeout = flag.Duration("timeout", 10*time.Second, "overall timeout")
	)
	flag.Parse()

	c := redis.New(*addr, *pass, *db)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "redis ping failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected: addr=%s db=%d match=%q\n", *addr, *db, redis.UserCachePrefix+*pattern)

	n, err := c.ScanUserCache(ctx, *pattern, *count, *doDel, func(e redis.CacheEntry) {
		fmt.Printf("%s\n   ttl=%s\n   val=%s\n", e.Key, e.TTL, e.Value)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed after %d keys: %v\n", n, err)
		os.Exit(1)
	}

	switch {
	case n == 0:
		fmt.Println("No keys matched.")
	case *doDel:
		fmt.Printf("Deleted %d keys.\n", n)
	default:
		fmt.Printf("%d keys.\n", n)
	}
}
