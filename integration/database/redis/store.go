package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/csrfkit/core/token"
)

const (
	sessionKeyPrefix = "csrf:session:"
	counterKey       = "csrf:counter"
)

// incrCounterScript increments the generation counter and wraps it back to
// zero once the threshold is reached, atomically.
var incrCounterScript = redis.NewScript(`
local c = redis.call('INCR', KEYS[1])
local t = tonumber(ARGV[1])
if c >= t then
	redis.call('SET', KEYS[1], 0)
end
return c
`)

// Store persists CSRF sessions in Redis hashes. When a TTL is configured,
// sessions expire natively and DeleteExpired has little left to do.
type Store struct {
	client        *redis.Client
	ttl           time.Duration
	scanBatchSize int64
}

// StoreOption customizes Store behavior.
type StoreOption func(*Store)

// WithTTL sets a native expiration on session keys. It should match the
// token manager's expiry window.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithScanBatchSize sets the SCAN page size used by DeleteExpired.
func WithScanBatchSize(n int64) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.scanBatchSize = n
		}
	}
}

// NewStore returns a Store backed by the given Redis client.
func NewStore(client *redis.Client, opts ...StoreOption) *Store {
	s := &Store{
		client:        client,
		scanBatchSize: 1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements token.Store.
func (s *Store) Get(ctx context.Context, sessionID string) (token.Session, error) {
	vals, err := s.client.HGetAll(ctx, sessionKeyPrefix+sessionID).Result()
	if err != nil {
		return token.Session{}, err
	}
	if len(vals) == 0 {
		return token.Session{}, token.ErrSessionNotFound
	}

	nanos, err := strconv.ParseInt(vals["issued_at"], 10, 64)
	if err != nil {
		return token.Session{}, errors.Join(token.ErrSessionNotFound, err)
	}

	return token.Session{
		ID:       sessionID,
		Token:    vals["token"],
		IssuedAt: time.Unix(0, nanos),
	}, nil
}

// Put implements token.Store. An existing session is overwritten.
func (s *Store) Put(ctx context.Context, sess token.Session) error {
	key := sessionKeyPrefix + sess.ID

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"token", sess.Token,
		"issued_at", strconv.FormatInt(sess.IssuedAt.UnixNano(), 10),
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// DeleteExpired implements token.Store. It scans session keys and removes
// those issued before the cutoff. With a TTL configured most expired keys
// are gone before the scan reaches them.
func (s *Store) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	var (
		deleted int64
		cursor  uint64
	)
	cutoffNanos := cutoff.UnixNano()

	for {
		keys, next, err := s.client.Scan(ctx, cursor, sessionKeyPrefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return deleted, err
		}

		for _, key := range keys {
			raw, err := s.client.HGet(ctx, key, "issued_at").Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				return deleted, err
			}
			nanos, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || nanos < cutoffNanos {
				n, err := s.client.Del(ctx, key).Result()
				if err != nil {
					return deleted, err
				}
				deleted += n
			}
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// IncrementCounter implements token.Store. The increment and the wrap back
// to zero run in a single Lua script, so concurrent callers cannot observe
// a partial update.
func (s *Store) IncrementCounter(ctx context.Context, threshold int64) (int64, error) {
	n, err := incrCounterScript.Run(ctx, s.client, []string{counterKey}, threshold).Int64()
	if err != nil {
		return 0, err
	}
	return n, nil
}
