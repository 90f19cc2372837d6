package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory(t *testing.T, size int) *MemoryCache {
	t.Helper()
	mc := NewMemoryCache(WithMemoryMaxSize(size), WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mc.Close() })
	return mc
}

func TestMemorySetGet(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemory(t, 4)

	_, ok, err := mc.GetBytes(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mc.SetBytes(ctx, "a", []byte("alpha"), time.Minute))
	b, ok, err := mc.GetBytes(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alpha", string(b))

	// Returned slices are copies.
	b[0] = 'X'
	b2, _, _ := mc.GetBytes(ctx, "a")
	assert.Equal(t, "alpha", string(b2))
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemory(t, 4)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.SetBytes(ctx, "k", []byte("v"), time.Second))
	now = now.Add(2 * time.Second)

	_, ok, err := mc.GetBytes(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryNoTTLKeeps(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemory(t, 4)
	now := time.Now()
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.SetBytes(ctx, "k", []byte("v"), 0))
	now = now.Add(24 * time.Hour)
	_, ok, _ := mc.GetBytes(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemory(t, 2)

	require.NoError(t, mc.SetBytes(ctx, "a", []byte("1"), 0))
	require.NoError(t, mc.SetBytes(ctx, "b", []byte("2"), 0))
	_, _, _ = mc.GetBytes(ctx, "a")
	require.NoError(t, mc.SetBytes(ctx, "c", []byte("3"), 0))

	_, okA, _ := mc.GetBytes(ctx, "a")
	_, okB, _ := mc.GetBytes(ctx, "b")
	_, okC, _ := mc.GetBytes(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
	assert.Equal(t, 2, mc.Len())
}

func TestMemoryRejectsEmpty(t *testing.T) {
	mc := newTestMemory(t, 2)
	assert.ErrorIs(t, mc.SetBytes(context.Background(), "k", nil, 0), ErrValueNotAllowed)
}

func TestMemoryPurge(t *testing.T) {
	ctx := context.Background()
	mc := newTestMemory(t, 4)
	now := time.Now()
	mc.now = func() time.Time { return now }

	require.NoError(t, mc.SetBytes(ctx, "short", []byte("v"), time.Second))
	require.NoError(t, mc.SetBytes(ctx, "long", []byte("v"), time.Hour))
	now = now.Add(time.Minute)
	mc.purgeExpired()
	assert.Equal(t, 1, mc.Len())
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New("memcached", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestNewMemoryBackend(t *testing.T) {
	c, err := New(BackendMemory, []MemoryOption{WithMemoryCleanup(0)}, nil)
	require.NoError(t, err)
	defer c.Close()
	assert.IsType(t, &MemoryCache{}, c)
}

func TestRedisKeyPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	rc := NewRedisCacheWithClient(client, "sp:")
	assert.Equal(t, "sp:abc", rc.wrapKey("abc"))
}

func TestHashKey(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		HashKey(nil))
	assert.NotEqual(t, HashKey([]byte("a")), HashKey([]byte("b")))
}

func TestGenerateKeyWithParams(t *testing.T) {
	assert.Equal(t, "report:abc:0:0.25", GenerateKeyWithParams("report", "abc", 0, 0.25))
}
