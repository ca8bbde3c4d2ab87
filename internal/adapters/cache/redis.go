package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/linguist/internal/domain/quality"
	"github.com/okian/linguist/pkg/logger"
	"github.com/okian/linguist/pkg/metrics"
)

const (
	defaultKey = "linguist:settings:quality"
	defaultTTL = 5 * time.Minute
)

// Option applies a configuration option to RedisSettings.
type Option func(*RedisSettings)

// WithTTL sets how long cached settings live.
func WithTTL(ttl time.Duration) Option {
	return func(r *RedisSettings) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithKey overrides the cache key.
func WithKey(key string) Option {
	return func(r *RedisSettings) {
		if key != "" {
			r.key = key
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *RedisSettings) {
		if l != nil {
			r.logger = l
		}
	}
}

// RedisSettings is a read-through cache in front of another SettingsStore.
// Redis failures are logged and the inner store is used directly.
type RedisSettings struct {
	client redis.Cmdable
	inner  SettingsStore
	key    string
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisSettings wraps inner with a Redis cache.
func NewRedisSettings(client redis.Cmdable, inner SettingsStore, opts ...Option) *RedisSettings {
	r := &RedisSettings{
		client: client,
		inner:  inner,
		key:    defaultKey,
		ttl:    defaultTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("settings-cache")
	}
	return r
}

// NewRedisClient builds a client the way every service here configures it.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// Get implements SettingsProvider.
func (r *RedisSettings) Get(ctx context.Context) (quality.Settings, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	switch {
	case err == nil:
		var s quality.Settings
		if jerr := json.Unmarshal(raw, &s); jerr == nil {
			metrics.RecordSettingsCache("hit")
			return s, nil
		}
		r.logger.Warn(ctx, "discarding undecodable cached settings", logger.String("key", r.key))
		metrics.RecordSettingsCache("miss")
	case errors.Is(err, redis.Nil):
		metrics.RecordSettingsCache("miss")
	default:
		metrics.RecordSettingsCache("error")
		r.logger.Warn(ctx, "settings cache read failed", logger.Error(err))
		return r.inner.Get(ctx)
	}

	s, err := r.inner.Get(ctx)
	if err != nil {
		return quality.Settings{}, err
	}
	if b, jerr := json.Marshal(s); jerr == nil {
		if serr := r.client.Set(ctx, r.key, b, r.ttl).Err(); serr != nil {
			r.logger.Warn(ctx, "settings cache write failed", logger.Error(serr))
		}
	}
	return s, nil
}

// Put writes through to the inner store and drops the cached copy.
func (r *RedisSettings) Put(ctx context.Context, s quality.Settings) error {
	if err := r.inner.Put(ctx, s); err != nil {
		return err
	}
	// A failed delete leaves a stale copy until the TTL expires.
	_ = r.Invalidate(ctx)
	return nil
}

// Invalidate removes the cached settings.
func (r *RedisSettings) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		r.logger.Warn(ctx, "settings cache invalidation failed", logger.Error(err))
		return fmt.Errorf("invalidate settings cache: %w", err)
	}
	return nil
}
