package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/parkspace/logger"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "parkspace"

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// Stats is the dashboard cache. Nil when REDIS_URL is unset; every method
// tolerates a nil receiver and reports a miss.
var Stats *StatsCache

type StatsCache struct {
	store cmdable
	raw   *redis.Client
	ttl   time.Duration
}

// Connect parses url, verifies connectivity and installs the result as Stats.
func Connect(ctx context.Context, url string, ttl time.Duration) (*StatsCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 3 * time.Second
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	Stats = &StatsCache{store: raw, raw: raw, ttl: ttl}
	logger.Log.Info().Dur("ttl", ttl).Msg("stats cache connected")
	return Stats, nil
}

func (c *StatsCache) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// Key scopes a cache entry, e.g. Key("admin") or Key("owner", id).
func Key(parts ...string) string {
	key := keyNamespace + ":stats"
	for _, p := range parts {
		if p != "" {
			key += ":" + p
		}
	}
	return key
}

// GetJSON decodes the entry at key into dst. It returns false on a miss or
// any backend error; callers then compute fresh.
func (c *StatsCache) GetJSON(ctx context.Context, key string, dst any) bool {
	if c == nil || c.store == nil {
		return false
	}
	raw, err := c.store.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn().Err(err).Str("key", key).Msg("stats cache read failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("stats cache entry corrupt")
		return false
	}
	return true
}

func (c *StatsCache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil || c.store == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("stats cache encode failed")
		return
	}
	if err := c.store.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("stats cache write failed")
	}
}

// Invalidate drops the given keys after a write that changes aggregates.
func (c *StatsCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.store == nil || len(keys) == 0 {
		return
	}
	if err := c.store.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn().Err(err).Strs("keys", keys).Msg("stats cache invalidate failed")
	}
}
