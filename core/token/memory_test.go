package token_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/csrfkit/core/token"
)

func TestMemoryStore_GetPut(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get unknown session returns not found", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()
		_, err := store.Get(ctx, "nosuch")
		assert.ErrorIs(t, err, token.ErrSessionNotFound)
	})

	t.Run("put then get round trip", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()
		sess := token.Session{ID: "abc123defg", Token: "tok", IssuedAt: time.Now()}
		require.NoError(t, store.Put(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess, got)
	})

	t.Run("put overwrites existing session", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()
		require.NoError(t, store.Put(ctx, token.Session{ID: "s", Token: "old", IssuedAt: time.Now()}))
		require.NoError(t, store.Put(ctx, token.Session{ID: "s", Token: "new", IssuedAt: time.Now()}))

		got, err := store.Get(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, "new", got.Token)
		assert.Equal(t, 1, store.Len())
	})
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := token.NewMemoryStore()
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

func TestMemoryStore_IncrementCounter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("wraps at threshold", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()

		for _, want := range []int64{1, 2, 3, 1, 2, 3, 1} {
			n, err := store.IncrementCounter(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, want, n)
		}
	})

	t.Run("crossing reported exactly once per cycle", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()
		const threshold = 100

		var wg sync.WaitGroup
		crossings := make(chan int64, threshold)
		for i := 0; i < threshold; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n, err := store.IncrementCounter(ctx, threshold)
				assert.NoError(t, err)
				if n == threshold {
					crossings <- n
				}
			}()
		}
		wg.Wait()
		close(crossings)

		var count int
		for range crossings {
			count++
		}
		assert.Equal(t, 1, count)
	})
}
