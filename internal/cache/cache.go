package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when no value is stored under the key
var ErrCacheMiss = errors.New("cache miss")

// ResultStore holds serialized simulation results
type ResultStore interface {
	// Get returns the value stored under key, or ErrCacheMiss
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. A zero ttl keeps it until evicted.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
