package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fika-analyzer/internal/config"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	expected := models.PageviewTotal{Page: "Wikipedia:Fikarummet", Views: 1234}
	err := cache.Set(ctx, "pageviews:sv", expected, time.Minute)
	require.NoError(t, err)

	assert.True(t, mr.Exists("fika:pageviews:sv"))

	var actual models.PageviewTotal
	found, err := cache.Get(ctx, "pageviews:sv", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out int64
	found, err := cache.Get(context.Background(), "no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestExpiration(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "questions", 3, time.Minute))
	mr.FastForward(2 * time.Minute)

	var out int
	found, err := cache.Get(ctx, "questions", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache, mr := setupTestCache(t)

	require.NoError(t, mr.Set("fika:bad", "not-json"))

	var out models.PageviewTotal
	found, err := cache.Get(context.Background(), "bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestSetUnmarshalableValue(t *testing.T) {
	cache, _ := setupTestCache(t)

	err := cache.Set(context.Background(), "chan", make(chan int), time.Minute)
	assert.Error(t, err)
}

func TestGetAfterServerClosed(t *testing.T) {
	cache, mr := setupTestCache(t)
	mr.Close()

	var out int
	found, err := cache.Get(context.Background(), "questions", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:1",
		DialTimeout:  100 * time.Millisecond,
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}
