package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/csrfkit/core/token"
	"github.com/dmitrymomot/csrfkit/integration/database/redis"
)

func newTestStore(t *testing.T, opts ...redis.StoreOption) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewStore(client, opts...), mr
}

func TestStore_GetPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get unknown session returns not found", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t)
		_, err := store.Get(ctx, "nosuch")
		assert.ErrorIs(t, err, token.ErrSessionNotFound)
	})

	t.Run("put then get round trip", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t)
		sess := token.Session{ID: "abc123defg", Token: "tok456", IssuedAt: time.Now().Truncate(0)}
		require.NoError(t, store.Put(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
		assert.Equal(t, sess.Token, got.Token)
		assert.True(t, sess.IssuedAt.Equal(got.IssuedAt))
	})

	t.Run("put overwrites existing session", func(t *testing.T) {
		t.Parallel()

		store, _ := newTestStore(t)
		require.NoError(t, store.Put(ctx, token.Session{ID: "s", Token: "old", IssuedAt: time.Now()}))
		require.NoError(t, store.Put(ctx, token.Session{ID: "s", Token: "new", IssuedAt: time.Now()}))

		got, err := store.Get(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Token)
	})

	t.Run("ttl expires sessions natively", func(t *testing.T) {
		t.Parallel()

		store, mr := newTestStore(t, redis.WithTTL(time.Minute))
		require.NoError(t, store.Put(ctx, token.Session{ID: "shortlived", Token: "t", IssuedAt: time.Now()}))

		mr.FastForward(2 * time.Minute)

		_, err := store.Get(ctx, "shortlived")
		assert.ErrorIs(t, err, token.ErrSessionNotFound)
	})
}

func TestStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)
	now := time.Now()

	require.NoError(t, store.Put(ctx, token.Session{ID: "old1", Token: "a", IssuedAt: now.Add(-2 * time.Hour)}))
	require.NoError(t, store.Put(ctx, token.Session{ID: "old2", Token: "b", IssuedAt: now.Add(-time.Hour)}))
	require.NoError(t, store.Put(ctx, token.Session{ID: "fresh", Token: "c", IssuedAt: now}))

	n, err := store.DeleteExpired(ctx, now.Add(-30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.Get(ctx, "old1")
	assert.ErrorIs(t, err, token.ErrSessionNotFound)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestStore_IncrementCounter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)

	for _, want := range []int64{1, 2, 3, 1, 2, 3, 1} {
		n, err := store.IncrementCounter(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
}

func TestStore_ImplementsTokenStore(t *testing.T) {
	t.Parallel()

	var _ token.Store = (*redis.Store)(nil)
}
