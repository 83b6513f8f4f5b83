package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ranked struct {
	Title string `json:"title"`
	Score int    `json:"score"`
}

func TestMemoryStore_SetGet(t *testing.T) {
	s := NewMemoryStore(context.Background(), 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "popular:service:anon:10", []ranked{{"a", 3}, {"b", 1}}, time.Minute))

	var got []ranked
	found, err := s.Get(ctx, "popular:service:anon:10", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []ranked{{"a", 3}, {"b", 1}}, got)

	found, err = s.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore(context.Background(), 0)
	now := time.Now()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", 1, time.Second))
	now = now.Add(2 * time.Second)

	var v int
	found, err := s.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	s.purgeExpired()
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	s := NewMemoryStore(context.Background(), 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "popular:service:anon:10", 1, time.Minute))
	require.NoError(t, s.Set(ctx, "popular:service:member:10", 2, time.Minute))
	require.NoError(t, s.Set(ctx, "popular:post:anon:10", 3, time.Minute))

	require.NoError(t, s.DeleteByPrefix(ctx, "popular:service:"))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "popular:post:anon:10"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_CleanupStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewMemoryStore(ctx, 10*time.Millisecond)
	require.NoError(t, s.Set(ctx, "k", 1, time.Nanosecond))

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 10*time.Millisecond)
	cancel()
}
