package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/csrfkit/core/token"
)

// querier is the subset of pgx operations the store needs, satisfied by both
// *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists CSRF sessions and the token generation counter in
// PostgreSQL. All statements are parameterized.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// db returns the transaction attached to the context, if any, so the store
// can participate in a caller-managed transaction.
func (s *Store) db(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

// Bootstrap creates the session and counter tables if they do not exist.
func (s *Store) Bootstrap(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS csrf_sessions (
			session_id TEXT PRIMARY KEY,
			token      TEXT NOT NULL,
			issued_at  TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS csrf_counter (
			id    SMALLINT PRIMARY KEY,
			count BIGINT NOT NULL
		);`
	_, err := s.db(ctx).Exec(ctx, schema)
	return err
}

// Get implements token.Store.
func (s *Store) Get(ctx context.Context, sessionID string) (token.Session, error) {
	const q = `SELECT token, issued_at FROM csrf_sessions WHERE session_id = $1`

	sess := token.Session{ID: sessionID}
	err := s.db(ctx).QueryRow(ctx, q, sessionID).Scan(&sess.Token, &sess.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return token.Session{}, token.ErrSessionNotFound
		}
		return token.Session{}, err
	}
	return sess, nil
}

// Put implements token.Store. An existing session is overwritten.
func (s *Store) Put(ctx context.Context, sess token.Session) error {
	const q = `
		INSERT INTO csrf_sessions (session_id, token, issued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id)
		DO UPDATE SET token = EXCLUDED.token, issued_at = EXCLUDED.issued_at`

	_, err := s.db(ctx).Exec(ctx, q, sess.ID, sess.Token, sess.IssuedAt)
	return err
}

// DeleteExpired implements token.Store.
func (s *Store) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `DELETE FROM csrf_sessions WHERE issued_at < $1`

	tag, err := s.db(ctx).Exec(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// IncrementCounter implements token.Store. The increment and the wrap back
// to zero happen in a single statement, so concurrent callers cannot observe
// a partial update.
func (s *Store) IncrementCounter(ctx context.Context, threshold int64) (int64, error) {
	const q = `
		INSERT INTO csrf_counter (id, count)
		VALUES (1, 1 % $1)
		ON CONFLICT (id)
		DO UPDATE SET count = (csrf_counter.count + 1) % $1
		RETURNING CASE WHEN count = 0 THEN $1::bigint ELSE count END`

	var n int64
	if err := s.db(ctx).QueryRow(ctx, q, threshold).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
