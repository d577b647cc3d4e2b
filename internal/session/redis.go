package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCmdable is the subset of the redis client used by RedisStorage.
type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStorage keeps keys in redis under a common prefix, so several
// terminals can share one session slot.
type RedisStorage struct {
	client redisCmdable
	prefix string
}

// NewRedisStorage creates a RedisStorage. A nil client yields nil.
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	if client == nil {
		return nil
	}
	return &RedisStorage{client: client, prefix: prefix}
}

// Get implements Storage.
func (r *RedisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Set implements Storage. Keys never expire; the server decides when a
// token stops being accepted.
func (r *RedisStorage) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, 0).Err()
}

// Delete implements Storage.
func (r *RedisStorage) Delete(ctx context.Context, key string) error {
	n, err := r.client.Del(ctx, r.prefix+key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
