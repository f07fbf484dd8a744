// Package rediscache implements the cache.Backend contract on Redis using
// go-redis. The client is constructed and closed by the process boundary
// and injected here, never held as package state.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tasknest/tasknest-api/internal/cache"
)

// scanBatchSize is the COUNT hint for SCAN during prefix sweeps.
const scanBatchSize = 100

// Backend is a cache.Backend backed by a shared Redis client. The client
// pools connections and is safe for concurrent use.
type Backend struct {
	client redis.UniversalClient
}

// New creates a Redis cache backend over the given client.
func New(client redis.UniversalClient) *Backend {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &Backend{client: client}
}

var _ cache.Backend = (*Backend)(nil)

// Get implements cache.Backend.Get. A Redis nil reply is a miss.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// SetWithTTL implements cache.Backend.SetWithTTL.
func (b *Backend) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete implements cache.Backend.Delete.
func (b *Backend) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := b.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// DeleteByPrefix implements cache.Backend.DeleteByPrefix with a SCAN loop,
// deleting matches batch by batch so large keyspaces are never blocked by
// a single KEYS call.
func (b *Backend) DeleteByPrefix(ctx context.Context, prefix string) error {
	pattern := prefix + "*"
	var cursor uint64

	for {
		keys, next, err := b.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}

		if len(keys) > 0 {
			if err := b.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Ping checks connectivity, used by the startup health probe.
func (b *Backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}
