package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreTests checks the behaviour every backend must share.
func runStoreTests(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, "test:missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, s.Set(ctx, "test:a", []byte("alpha"), time.Minute))
	got, err := s.Get(ctx, "test:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), got)

	require.NoError(t, s.Set(ctx, "test:a", []byte("beta"), time.Minute))
	got, err = s.Get(ctx, "test:a")
	require.NoError(t, err)
	assert.Equal(t, []byte("beta"), got)

	require.NoError(t, s.Delete(ctx, "test:a", "test:missing"))
	_, err = s.Get(ctx, "test:a")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, NewMemory(10))
}

func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set, skipping Redis tests")
	}
	s, err := NewRedis(redisURL)
	require.NoError(t, err)
	defer s.Close()
	runStoreTests(t, s)
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	require.NoError(t, m.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, m.Set(ctx, "c", []byte("3"), 0))

	assert.Equal(t, 2, m.Len())
	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Second))
	_, err := m.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Len())
}

func TestNew(t *testing.T) {
	s, err := New(Options{Backend: "none"})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, s)

	s, err = New(Options{Backend: "memory", MaxEntries: 3})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	_, err = New(Options{Backend: "memcached"})
	assert.Error(t, err)
}

func TestImagesInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewImages(NewMemory(10), time.Minute, []int{160, 320})

	orig := &CachedImage{Name: "a.png", ContentType: "image/png", Data: []byte{1, 2, 3}}
	require.NoError(t, c.Set(ctx, 7, 0, orig))
	require.NoError(t, c.Set(ctx, 7, 160, &CachedImage{Name: "a.png", ContentType: "image/png", Data: []byte{1}}))
	require.NoError(t, c.Set(ctx, 8, 0, orig))

	got, err := c.Get(ctx, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	require.NoError(t, c.Invalidate(ctx, 7))
	_, err = c.Get(ctx, 7, 0)
	assert.ErrorIs(t, err, ErrMiss)
	_, err = c.Get(ctx, 7, 160)
	assert.ErrorIs(t, err, ErrMiss)

	_, err = c.Get(ctx, 8, 0)
	assert.NoError(t, err)
}
