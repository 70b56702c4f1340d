package repo

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idempotency:"

// pendingMarker занимает ключ, пока задача еще создается
const pendingMarker = "pending"

// RedisKeyStore shares idempotency keys between instances of the service.
type RedisKeyStore struct {
	client *redis.Client
}

func NewRedisKeyStore(client *redis.Client) *RedisKeyStore {
	return &RedisKeyStore{client: client}
}

// Reserve uses SETNX so only one instance creates the resource for a key.
func (s *RedisKeyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, idempotencyPrefix+key, pendingMarker, ttl).Result()
}

func (s *RedisKeyStore) Save(ctx context.Context, key string, resourceID int64, ttl time.Duration) error {
	return s.client.Set(ctx, idempotencyPrefix+key, resourceID, ttl).Err()
}

func (s *RedisKeyStore) Get(ctx context.Context, key string) (int64, error) {
	val, err := s.client.Get(ctx, idempotencyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrorNotFound
	}
	if err != nil {
		return 0, err
	}
	if val == pendingMarker {
		return 0, ErrorKeyPending
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *RedisKeyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyPrefix+key).Err()
}
