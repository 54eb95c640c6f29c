package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to TEST_REDIS_ADDR, skipping the test when it is unset
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())

	t.Cleanup(func() { client.Close() })
	return client
}

func TestResultCache_SetGet(t *testing.T) {
	client := newTestClient(t)
	c := NewResultCache(client)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, keyPrefix+key) })

	require.NoError(t, c.Set(ctx, key, `{"cycles":[]}`, time.Minute))

	value, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"cycles":[]}`, value)

	ttl, err := client.TTL(ctx, keyPrefix+key).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestResultCache_Miss(t *testing.T) {
	c := NewResultCache(newTestClient(t))

	_, err := c.Get(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestResultCache_ClosedClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	require.NoError(t, client.Close())
	c := NewResultCache(client)

	_, err := c.Get(context.Background(), "anything")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}
