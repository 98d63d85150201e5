package token_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/csrfkit/core/token"
)

// mockStore implements token.Store for failure injection.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, sessionID string) (token.Session, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(token.Session), args.Error(1)
}

func (m *mockStore) Put(ctx context.Context, sess token.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *mockStore) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) IncrementCounter(ctx context.Context, threshold int64) (int64, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(int64), args.Error(1)
}

func TestManager_Match(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid token matches", func(t *testing.T) {
		t.Parallel()

		mgr, err := token.NewManager(token.NewMemoryStore())
		require.NoError(t, err)

		sess, err := mgr.Issue(ctx, "")
		require.NoError(t, err)

		res, err := mgr.Match(ctx, sess.ID, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, token.MatchValid, res)
	})

	t.Run("wrong token does not match", func(t *testing.T) {
		t.Parallel()

		mgr, err := token.NewManager(token.NewMemoryStore())
		require.NoError(t, err)

		sess, err := mgr.Issue(ctx, "")
		require.NoError(t, err)

		res, err := mgr.Match(ctx, sess.ID, "definitely-not-it")
		require.NoError(t, err)
		assert.Equal(t, token.MatchNoMatch, res)
	})

	t.Run("unknown session reports not found without error", func(t *testing.T) {
		t.Parallel()

		mgr, err := token.NewManager(token.NewMemoryStore())
		require.NoError(t, err)

		res, err := mgr.Match(ctx, "nosuchsess", "anything")
		require.NoError(t, err)
		assert.Equal(t, token.MatchNotFound, res)
	})

	t.Run("expired token reports expired", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()
		mgr, err := token.NewManager(store, token.WithExpiry(time.Minute))
		require.NoError(t, err)

		sess := token.Session{ID: "stalesess1", Token: "sometoken123456", IssuedAt: time.Now().Add(-2 * time.Minute)}
		require.NoError(t, store.Put(ctx, sess))

		res, err := mgr.Match(ctx, sess.ID, sess.Token)
		require.NoError(t, err)
		assert.Equal(t, token.MatchExpired, res)
	})

	t.Run("store failure surfaces as unavailable", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("Get", mock.Anything, "sess").Return(token.Session{}, errors.New("connection refused"))

		mgr, err := token.NewManager(store)
		require.NoError(t, err)

		_, err = mgr.Match(ctx, "sess", "tok")
		assert.ErrorIs(t, err, token.ErrStoreUnavailable)
		store.AssertExpectations(t)
	})
}

func TestManager_Issue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty session id mints a new session", func(t *testing.T) {
		t.Parallel()

		mgr, err := token.NewManager(token.NewMemoryStore())
		require.NoError(t, err)

		sess, err := mgr.Issue(ctx, "")
		require.NoError(t, err)
		assert.Len(t, sess.ID, token.SessionIDLength)
		assert.Len(t, sess.Token, token.DefaultTokenLength)
		assert.WithinDuration(t, time.Now(), sess.IssuedAt, time.Second)
	})

	t.Run("existing session id is reused with a fresh token", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()
		mgr, err := token.NewManager(store)
		require.NoError(t, err)

		first, err := mgr.Issue(ctx, "keepthisid")
		require.NoError(t, err)
		second, err := mgr.Issue(ctx, "keepthisid")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.NotEqual(t, first.Token, second.Token)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("custom token length is honored", func(t *testing.T) {
		t.Parallel()

		mgr, err := token.NewManager(token.NewMemoryStore(), token.WithTokenLength(20))
		require.NoError(t, err)

		sess, err := mgr.Issue(ctx, "")
		require.NoError(t, err)
		assert.Len(t, sess.Token, 20)
	})

	t.Run("token length below minimum is refused", func(t *testing.T) {
		t.Parallel()

		mgr, err := token.NewManager(token.NewMemoryStore(), token.WithTokenLength(5))
		require.NoError(t, err)

		assert.Equal(t, token.DefaultTokenLength, mgr.TokenLength())
	})

	t.Run("put failure fails the issuance", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("Put", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		mgr, err := token.NewManager(store)
		require.NoError(t, err)

		_, err = mgr.Issue(ctx, "")
		assert.ErrorIs(t, err, token.ErrStoreUnavailable)
	})

	t.Run("counter failure does not fail the issuance", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("Put", mock.Anything, mock.Anything).Return(nil)
		store.On("IncrementCounter", mock.Anything, int64(token.DefaultReseedThreshold)).
			Return(int64(0), errors.New("counter table gone"))

		mgr, err := token.NewManager(store)
		require.NoError(t, err)

		sess, err := mgr.Issue(ctx, "")
		require.NoError(t, err)
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("threshold crossing keeps issuance working", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("Put", mock.Anything, mock.Anything).Return(nil)
		store.On("IncrementCounter", mock.Anything, int64(3)).Return(int64(3), nil)

		mgr, err := token.NewManager(store, token.WithReseedThreshold(3))
		require.NoError(t, err)

		sess, err := mgr.Issue(ctx, "")
		require.NoError(t, err)
		assert.Len(t, sess.Token, token.DefaultTokenLength)
		store.AssertExpectations(t)
	})
}

func TestManager_Sweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("removes only expired sessions", func(t *testing.T) {
		t.Parallel()

		store := token.NewMemoryStore()
		mgr, err := token.NewManager(store, token.WithExpiry(time.Minute))
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, token.Session{ID: "stale", Token: "a", IssuedAt: time.Now().Add(-time.Hour)}))
		require.NoError(t, store.Put(ctx, token.Session{ID: "live", Token: "b", IssuedAt: time.Now()}))

		n, err := mgr.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("store failure surfaces as unavailable", func(t *testing.T) {
		t.Parallel()

		store := &mockStore{}
		store.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout"))

		mgr, err := token.NewManager(store)
		require.NoError(t, err)

		_, err = mgr.Sweep(ctx)
		assert.ErrorIs(t, err, token.ErrStoreUnavailable)
	})
}
