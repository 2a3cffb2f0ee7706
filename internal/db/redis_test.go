package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisDB, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisDBFromClient(client), mr
}

func TestRedisDB_Cache(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	t.Run("miss before set", func(t *testing.T) {
		var out []string
		err := r.GetCache(ctx, "users:directory", &out)
		assert.True(t, IsMiss(err))
	})

	t.Run("round trip and expiry", func(t *testing.T) {
		require.NoError(t, r.SetCache(ctx, "users:directory", []string{"a", "b"}, time.Minute))

		var out []string
		require.NoError(t, r.GetCache(ctx, "users:directory", &out))
		assert.Equal(t, []string{"a", "b"}, out)

		mr.FastForward(2 * time.Minute)
		assert.True(t, IsMiss(r.GetCache(ctx, "users:directory", &out)))
	})

	t.Run("invalidate by pattern", func(t *testing.T) {
		require.NoError(t, r.SetCache(ctx, "users:directory", []string{"a"}, time.Minute))
		require.NoError(t, r.SetCache(ctx, "users:other", []string{"b"}, time.Minute))
		require.NoError(t, r.InvalidateCache(ctx, "users:*"))

		assert.False(t, mr.Exists("cache:users:directory"))
		assert.False(t, mr.Exists("cache:users:other"))
	})
}

func TestRedisDB_Session(t *testing.T) {
	r, mr := setupTestRedis(t)
	ctx := context.Background()

	ok, err := r.HasSession(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.SetSession(ctx, "revoked:abc", true, time.Minute))
	ok, err = r.HasSession(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = r.HasSession(ctx, "revoked:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}
