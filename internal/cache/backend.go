// Package cache provides the task cache: typed point and page entries over
// a generic key-value backend, with deterministic key construction and the
// owner-wide page invalidation sweep.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Backend.Get when the key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// Backend is the key-value contract the task cache runs on. Implementations
// must be safe for concurrent use; the Redis implementation lives in
// internal/platform/rediscache.
type Backend interface {
	// Get returns the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithTTL stores value under key with the given expiry.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPrefix removes every key that starts with prefix.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
