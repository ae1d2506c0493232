package cache

import (
	"context"
	"time"
)

// Store is the shared cache used for rate counters.
type Store interface {
	// IncrementWithTTL bumps the counter for key within a fixed window and
	// returns the new count and the time left before the window resets.
	IncrementWithTTL(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Delete(ctx context.Context, keys ...string) error
}

const defaultWindow = time.Minute
