package token

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/csrfkit/core/logger"
)

const (
	// DefaultTokenLength is the issued token length when none is configured.
	DefaultTokenLength = 15
	// MinTokenLength is the floor below which configured token lengths are
	// refused; shorter tokens are too easy to brute-force.
	MinTokenLength = 12
	// DefaultExpiry is how long an issued token stays valid.
	DefaultExpiry = 30 * time.Minute
	// DefaultReseedThreshold is the number of issuances between generator
	// reseeds from the system entropy source.
	DefaultReseedThreshold = 10000
)

// Manager coordinates token issuance, matching and expiry on top of a Store
// and a Generator. It is safe for concurrent use to the extent the store is.
type Manager struct {
	store           Store
	gen             *Generator
	expiry          time.Duration
	tokenLength     int
	reseedThreshold int64
	log             *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithExpiry sets the token validity window.
func WithExpiry(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.expiry = d
		}
	}
}

// WithTokenLength sets the issued token length. Values below MinTokenLength
// are refused and the previously configured length is retained.
func WithTokenLength(length int) Option {
	return func(m *Manager) {
		if length >= MinTokenLength {
			m.tokenLength = length
		}
	}
}

// WithReseedThreshold sets the number of issuances between generator reseeds.
func WithReseedThreshold(n int64) Option {
	return func(m *Manager) {
		if n > 0 {
			m.reseedThreshold = n
		}
	}
}

// WithLogger sets the structured logger (default discards output).
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a token manager backed by the given store, with a
// freshly seeded generator.
func NewManager(store Store, opts ...Option) (*Manager, error) {
	gen, err := NewGenerator()
	if err != nil {
		return nil, err
	}

	m := &Manager{
		store:           store,
		gen:             gen,
		expiry:          DefaultExpiry,
		tokenLength:     DefaultTokenLength,
		reseedThreshold: DefaultReseedThreshold,
		log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Match compares the candidate token against the token stored for sessionID.
// Store failures are reported as ErrStoreUnavailable; every other outcome is
// a MatchResult, including absence and expiry.
func (m *Manager) Match(ctx context.Context, sessionID, candidate string) (MatchResult, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return MatchNotFound, nil
		}
		return MatchNotFound, errors.Join(ErrStoreUnavailable, err)
	}

	if time.Since(sess.IssuedAt) > m.expiry {
		return MatchExpired, nil
	}

	if subtle.ConstantTimeCompare([]byte(sess.Token), []byte(candidate)) == 1 {
		return MatchValid, nil
	}
	return MatchNoMatch, nil
}

// Issue generates a fresh token for the session, persists the pair, and runs
// the counter/reseed step. An empty sessionID creates a new session with a
// generated id. Counter failures after a successful Put are logged but do not
// fail the issuance.
func (m *Manager) Issue(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		sessionID = m.gen.SessionID()
	}

	sess := Session{
		ID:       sessionID,
		Token:    m.gen.Generate(m.tokenLength),
		IssuedAt: time.Now(),
	}
	if err := m.store.Put(ctx, sess); err != nil {
		return Session{}, errors.Join(ErrStoreUnavailable, err)
	}

	count, err := m.store.IncrementCounter(ctx, m.reseedThreshold)
	if err != nil {
		m.log.ErrorContext(ctx, "token manager: counter increment failed", logger.Error(err))
		return sess, nil
	}
	if count == m.reseedThreshold {
		if err := m.gen.Reseed(); err != nil {
			m.log.ErrorContext(ctx, "token manager: generator reseed failed", logger.Error(err))
		}
	}
	return sess, nil
}

// Sweep deletes every session whose token expired before now and returns the
// number removed. Intended to run opportunistically once per response rather
// than on a background timer.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteExpired(ctx, time.Now().Add(-m.expiry))
	if err != nil {
		return 0, errors.Join(ErrStoreUnavailable, err)
	}
	return n, nil
}

// TokenLength returns the configured token length.
func (m *Manager) TokenLength() int {
	return m.tokenLength
}

// Expiry returns the configured token validity window.
func (m *Manager) Expiry() time.Duration {
	return m.expiry
}
