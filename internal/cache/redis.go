package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nwalden/farescout/internal/flights"
)

// Connect parses redisURL, creates a client, and verifies connectivity with
// a ping.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return client, nil
}

// Redis stores search results in a shared Redis instance, for deployments
// where several replicas should share one fare cache. Capacity bounding is
// delegated to the server's eviction policy. Backend failures are logged
// and surface as cache misses, never as errors.
type Redis struct {
	client *redis.Client
	log    *slog.Logger
}

// NewRedis wraps an already-connected client.
func NewRedis(client *redis.Client, log *slog.Logger) *Redis {
	return &Redis{client: client, log: log}
}

// Get retrieves the result stored under key, reporting absent on miss,
// expiry, or backend failure.
func (r *Redis) Get(ctx context.Context, key string) (*flights.SearchResult, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("cache get failed", "key", key, "err", err)
		}
		return nil, false
	}

	var result flights.SearchResult
	if err := json.Unmarshal(val, &result); err != nil {
		r.log.Warn("cached result corrupt, dropping", "key", key, "err", err)
		_ = r.client.Del(ctx, key).Err()
		return nil, false
	}

	return &result, true
}

// Put stores result under key with the given TTL.
func (r *Redis) Put(ctx context.Context, key string, result *flights.SearchResult, ttl time.Duration) {
	if result == nil {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	b, err := json.Marshal(result)
	if err != nil {
		r.log.Warn("marshaling result for cache", "key", key, "err", err)
		return
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.log.Warn("cache put failed", "key", key, "err", err)
	}
}

// Ping verifies backend connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
