package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/shopstate/internal/storage"
)

// Adapter implements storage.Adapter using Redis string keys. Keys are
// stored as given; wrap it with storage.WithNamespace to scope them.
type Adapter struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAdapter creates a Redis-backed adapter. A zero ttl stores keys without expiry.
func NewAdapter(client *redis.Client, ttl time.Duration) *Adapter {
	return &Adapter{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the blob stored under key.
func (a *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := a.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set overwrites the blob stored under key.
func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	if err := a.client.Set(ctx, key, value, a.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the server is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}
