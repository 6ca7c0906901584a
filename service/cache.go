package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICacheClient is the subset of *redis.Client used for statement caching.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DefaultCacheTTL applies when no TTL is configured.
const DefaultCacheTTL = 10 * time.Minute

// statementCacheKey is "<namespace>:transactions:<account>", or
// "transactions:<account>" without a namespace.
func statementCacheKey(namespace, accountNumber string) string {
	if namespace == "" {
		return "transactions:" + accountNumber
	}
	return namespace + ":transactions:" + accountNumber
}
