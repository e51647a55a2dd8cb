package ports

import (
	"context"
	"time"
)

// Cache is the persistent key-value store shared by the translation and recipe
// usecases. Values are opaque strings (JSON for structured data).
//
// Get reports found=false for both absent and expired keys. Set overwrites any
// existing entry and restarts its lifetime; ttl <= 0 means the store default.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachePurger is implemented by stores that need expired entries removed
// explicitly. Stores with native expiry do not implement it.
type CachePurger interface {
	Purge(ctx context.Context) (removed int64, err error)
}
