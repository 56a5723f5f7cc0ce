package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheGetJSON loads a cached value into out. Returns false on miss or any
// Redis error so callers always fall back to the database.
func CacheGetJSON(ctx context.Context, key string, out interface{}) bool {
	rc := GetRedis()
	if rc == nil {
		return false
	}
	raw, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			Sugar.Debugf("cache get %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		Sugar.Warnf("cache decode %s: %v", key, err)
		return false
	}
	return true
}

// CacheSetJSON stores a value with TTL, best effort.
func CacheSetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	raw, err := json.Marshal(val)
	if err != nil {
		Sugar.Warnf("cache encode %s: %v", key, err)
		return
	}
	if err := rc.Set(ctx, key, raw, ttl).Err(); err != nil {
		Sugar.Debugf("cache set %s: %v", key, err)
	}
}

// CacheDelete removes keys, best effort. Used to drop stale projections.
func CacheDelete(ctx context.Context, keys ...string) {
	rc := GetRedis()
	if rc == nil || len(keys) == 0 {
		return
	}
	if err := rc.Del(ctx, keys...).Err(); err != nil {
		Sugar.Debugf("cache del: %v", err)
	}
}
