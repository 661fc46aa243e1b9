package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists client state in Redis. No TTL is set: anonymous
// carts survive until the device session is evicted explicitly.
type RedisStore struct {
	rdb *redis.Client
	ctx context.Context
}

// OpenRedis connects to addr and verifies the connection with a ping.
func OpenRedis(addr, password string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("localstore: redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, ctx: ctx}, nil
}

func (s *RedisStore) Get(key string, dest interface{}) bool {
	val, err := s.rdb.Get(s.ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (s *RedisStore) Put(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: marshal %q: %w", key, err)
	}
	return s.rdb.Set(s.ctx, key, raw, 0).Err()
}

func (s *RedisStore) Delete(key string) error {
	return s.rdb.Del(s.ctx, key).Err()
}

// Close releases the underlying Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
