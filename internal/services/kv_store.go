package services

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	mem "cabbie/pkg/memcache"
)

// KVStore holds short-lived blobs (wizard drafts, cached quotes).
// Get returns (nil, nil) for a missing or expired key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// NewKVStore prefers Redis and falls back to the in-process store when no
// client is configured.
func NewKVStore(client *redis.Client, fallback *mem.TTLStore) KVStore {
	if client != nil {
		return &redisStore{client: client}
	}
	return &memoryStore{store: fallback}
}

type redisStore struct {
	client *redis.Client
}

func (r *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return b, err
}

func (r *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

type memoryStore struct {
	store *mem.TTLStore
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	b, ok := m.store.Get(key)
	if !ok {
		return nil, nil
	}
	return b, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.store.Set(key, value, ttl)
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}
