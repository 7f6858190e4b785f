package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachable returns a Cache whose client can never connect.
func unreachable(t *testing.T) *Cache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewWithClient(client)
}

func TestHashIP(t *testing.T) {
	t.Parallel()

	a := hashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, hashIP("203.0.113.7"))
	assert.NotEqual(t, a, hashIP("203.0.113.8"))
	assert.NotContains(t, a, "203")
}

func TestCheckIPRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	res, err := unreachable(t).CheckIPRateLimit(context.Background(), "198.51.100.1", 0, 5)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(5), res.Remaining)
}

func TestCheckIPRateLimit_RedisDown(t *testing.T) {
	t.Parallel()

	res, err := unreachable(t).CheckIPRateLimit(context.Background(), "198.51.100.1", 10, 20)
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestNew_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), "not a url")
	assert.Error(t, err)
}
