package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(RedisOptions{Addr: mr.Addr(), Prefix: "profile:"})
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err := c.Get(ctx, "missing")
	assert.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, c.Set(ctx, "abc", []byte(`{"name":"x"}`), time.Minute))
	assert.True(t, mr.Exists("profile:abc"))

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, err = c.Get(ctx, "abc")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestMemoryCacheExpiry(t *testing.T) {
	now := time.Date(2025, 3, 21, 10, 0, 0, 0, time.UTC)
	c := NewMemory(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	now = now.Add(time.Second)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}
