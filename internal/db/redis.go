// internal/db/redis.go
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisDB struct {
	Client *redis.Client
}

func NewRedisDB(ctx context.Context, redisURL string) (*RedisDB, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("[Redis] ✅ Connected to Redis")
	return NewRedisDBFromClient(client), nil
}

// NewRedisDBFromClient wraps an already configured client.
func NewRedisDBFromClient(client *redis.Client) *RedisDB {
	return &RedisDB{Client: client}
}

func (r *RedisDB) Close() {
	if r.Client != nil {
		r.Client.Close()
		log.Println("[Redis] Connection closed")
	}
}

// Ping reports whether the server answers.
func (r *RedisDB) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// IsMiss reports whether err means the key does not exist.
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Session management
func (r *RedisDB) SetSession(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, "session:"+key, data, expiration).Err()
}

func (r *RedisDB) HasSession(ctx context.Context, key string) (bool, error) {
	n, err := r.Client.Exists(ctx, "session:"+key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Cache methods
func (r *RedisDB) SetCache(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, "cache:"+key, data, expiration).Err()
}

func (r *RedisDB) GetCache(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Client.Get(ctx, "cache:"+key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisDB) InvalidateCache(ctx context.Context, pattern string) error {
	keys, err := r.Client.Keys(ctx, "cache:"+pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.Client.Del(ctx, keys...).Err()
	}
	return nil
}
