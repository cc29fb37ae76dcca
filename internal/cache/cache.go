package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/partnerhub/partnerhub/internal/config"
)

// ErrCacheMiss is returned when the key is absent. Callers fall through to
// the database and repopulate.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a thin JSON layer over redis. A nil *Cache is a valid no-op
// instance, so wiring stays unconditional even when REDIS_ADDR is unset.
type Cache struct {
	client *redis.Client
}

// New connects to redis when an address is configured and returns nil
// otherwise. The nil instance misses on every read and drops every write.
func New(conf *config.Config) *Cache {
	if conf.REDIS_ADDR == "" {
		slog.Info("Redis not configured, caching disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     conf.REDIS_ADDR,
		Password: conf.REDIS_PASSWORD,
		DB:       conf.REDIS_DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("Unable to reach redis, caching disabled", slog.Any("error", err))
		return nil
	}

	slog.Info("Connected to redis", slog.String("addr", conf.REDIS_ADDR))

	return &Cache{client: client}
}

// Get unmarshals the cached value at key into dest.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	if c == nil {
		return ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, dest)
}

// Set stores value at key for ttl. Failures are logged, not returned; a cold
// cache is never worth failing a request over.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("Unable to marshal cache value", slog.String("key", key), slog.Any("error", err))
		return
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		slog.Warn("Unable to write cache value", slog.String("key", key), slog.Any("error", err))
	}
}

// DeleteByPrefix removes every key starting with prefix. Uses SCAN rather
// than KEYS so invalidation never blocks the redis event loop.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) {
	if c == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			slog.Warn("Unable to delete cache key", slog.String("key", iter.Val()), slog.Any("error", err))
		}
	}

	if err := iter.Err(); err != nil {
		slog.Warn("Cache invalidation scan failed", slog.String("prefix", prefix), slog.Any("error", err))
	}
}

// Close releases the underlying connection pool.
func (c *Cache) Close() {
	if c == nil {
		return
	}

	if err := c.client.Close(); err != nil {
		slog.Warn("Unable to close redis client", slog.Any("error", err))
	}
}
