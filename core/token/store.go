package token

import (
	"context"
	"time"
)

// Store defines the persistence interface for session tokens and the process
// request counter. Implementations must make Put an upsert and
// IncrementCounter a single atomic exchange; concurrency correctness depends
// entirely on the backing store's guarantees.
type Store interface {
	// Get returns the session for the given id, or ErrSessionNotFound.
	Get(ctx context.Context, sessionID string) (Session, error)

	// Put inserts the session or, when the id already exists, overwrites its
	// token and issuance timestamp.
	Put(ctx context.Context, sess Session) error

	// DeleteExpired removes every session issued before cutoff and returns
	// the number of deleted sessions.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)

	// IncrementCounter atomically advances the request counter modulo
	// threshold and returns the pre-reset count: a return value equal to
	// threshold signals the crossing (the stored value is then zero).
	IncrementCounter(ctx context.Context, threshold int64) (int64, error)
}
