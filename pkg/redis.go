package pkg

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// RedisCache stores JSON-serialized values under a key prefix with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (slf *RedisCache) key(k string) string {
	if slf.prefix == "" {
		return k
	}
	return slf.prefix + ":" + k
}

// Set stores a value in Redis with the cache TTL. The value is JSON-serialized.
func (slf *RedisCache) Set(ctx context.Context, key string, value any) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return slf.client.Set(ctx, slf.key(key), data, slf.ttl).Err()
}

// Get retrieves a value from Redis and JSON-deserializes it into dest.
// Returns redis.Nil if the key does not exist.
func (slf *RedisCache) Get(ctx context.Context, key string, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	data, err := slf.client.Get(ctx, slf.key(key)).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Delete removes a key from Redis.
func (slf *RedisCache) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	return slf.client.Del(ctx, slf.key(key)).Err()
}

// Exists checks whether a key exists in Redis.
func (slf *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()

	n, err := slf.client.Exists(ctx, slf.key(key)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (slf *RedisCache) IsMiss(err error) bool {
	return IsRedisNil(err)
}

// IsRedisNil returns true if the error is a redis key-not-found error.
func IsRedisNil(err error) bool {
	return errors.Is(err, redis.Nil)
}
