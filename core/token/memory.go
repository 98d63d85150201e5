package token

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store implementation. It is the default for
// tests and single-process deployments; use the pg or redis adapters when
// sessions must survive restarts or be shared between instances.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	counter  int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess
	return nil
}

// DeleteExpired implements Store.
func (s *MemoryStore) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, sess := range s.sessions {
		if sess.IssuedAt.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

// IncrementCounter implements Store. The whole exchange runs under one lock,
// so the threshold crossing is observed by exactly one caller.
func (s *MemoryStore) IncrementCounter(_ context.Context, threshold int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.counter + 1
	if next >= threshold {
		s.counter = 0
	} else {
		s.counter = next
	}
	return next, nil
}

// Len returns the number of live sessions. Exposed for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
