package stylize

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"yourmovie/logging"

	"github.com/redis/go-redis/v9"
)

// Cache stores styled images keyed by drawing content and style.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
}

// CacheKey is sha256(drawing) joined with the style number.
func CacheKey(drawing []byte, style int) string {
	h := sha256.Sum256(drawing)
	return hex.EncodeToString(h[:]) + ":" + strconv.Itoa(style)
}

// RedisConfig configures the Redis-backed cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces every key
	Prefix string
	TTL    time.Duration
}

// RedisCache is a Cache on top of plain Redis strings.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies connectivity.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "stylize:"
	}
	return &RedisCache{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

// Get returns the cached image, if any.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the image with the configured TTL (0 keeps it forever).
func (r *RedisCache) Set(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.prefix+key, data, r.ttl).Err()
}

// Close closes the underlying Redis client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachedStylizer consults a Cache before calling the wrapped Stylizer.
// Cache failures are logged and never fail a request.
type CachedStylizer struct {
	next  Stylizer
	cache Cache
}

// WithCache wraps next with cache.
func WithCache(next Stylizer, cache Cache) *CachedStylizer {
	return &CachedStylizer{next: next, cache: cache}
}

// Process implements Stylizer.
func (c *CachedStylizer) Process(ctx context.Context, drawing []byte, style int) ([]byte, error) {
	key := CacheKey(drawing, style)

	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		logging.From(ctx).Warn("stylize cache read failed", "error", err)
	} else if ok {
		logging.From(ctx).Debug("stylize cache hit", "style", style)
		return data, nil
	}

	data, err := c.next.Process(ctx, drawing, style)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data); err != nil {
		logging.From(ctx).Warn("stylize cache write failed", "error", err)
	}
	return data, nil
}
