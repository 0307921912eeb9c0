package interfaces

import (
	"context"
	"time"
)

// CacheProvider stores computed view payloads. Get returns (nil, nil) on a miss.
type CacheProvider interface {
	Get(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
