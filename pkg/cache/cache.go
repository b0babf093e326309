// Package cache stores small byte values under string keys.
//
// The formatter runner uses it to remember files that were already found
// formatted, so unchanged files are not parsed again on the next run.
// Backends: [FileCache] for local CLI use, [RedisCache] to share markers
// between machines or with the server, and [NullCache] to disable caching.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl <= 0 keeps the entry until deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
