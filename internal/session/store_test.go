package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrisense/internal/cache"
	"agrisense/internal/model"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("farmer@example.com", model.RoleUser, "tok")
	s.ID = "abc"
	s.SetResult("Tomato", model.NewAnalysisResult(map[string]string{"sowing_season": "June"}))
	require.NoError(t, store.Put(ctx, s, time.Minute))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "farmer@example.com", got.Email)
	assert.Equal(t, "Tomato", got.LastCrop)
	require.NotNil(t, got.LastResult)
	v, _ := got.LastResult.Get("sowing_season")
	assert.Equal(t, "June", v)

	require.NoError(t, store.Delete(ctx, "abc"))
	got, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("a@b.com", model.RoleUser, "")
	s.ID = "one"
	require.NoError(t, store.Put(ctx, s, time.Minute))
	s.Email = "changed@b.com"

	got, err := store.Get(ctx, "one")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", got.Email)
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	s := Anonymous()
	s.ID = "x"
	require.NoError(t, store.Put(ctx, s, time.Minute))

	now = now.Add(2 * time.Minute)
	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_PutSweepsAbandonedSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for _, id := range []string{"a", "b", "c"} {
		s := Anonymous()
		s.ID = id
		require.NoError(t, store.Put(ctx, s, time.Minute))
	}
	assert.Equal(t, 3, store.Len())

	// Never read again; the next write after expiry removes them.
	now = now.Add(2 * time.Minute)
	fresh := Anonymous()
	fresh.ID = "fresh"
	require.NoError(t, store.Put(ctx, fresh, time.Minute))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := cache.New(addr, os.Getenv("REDIS_PASSWORD"), 0)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx))

	first := NewRedisStore(client, "boot-1")
	s := New("admin@example.com", model.RoleAdmin, "")
	s.ID = "redis-session"
	require.NoError(t, first.Put(ctx, s, time.Minute))
	t.Cleanup(func() { _ = first.Delete(ctx, s.ID) })

	got, err := first.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.RoleAdmin, got.Role)

	// A restarted process uses a new namespace and sees nothing.
	second := NewRedisStore(client, "boot-2")
	got, err = second.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
