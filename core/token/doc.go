// Package token implements the anti-forgery token lifecycle: generation,
// persistence, matching and expiry.
//
// A Session links a browser (identified by an HTTP-only session cookie) to
// the token it must echo back on state-changing requests. The Manager is the
// single entry point; it composes a persistence Store with a reseeding
// Generator.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/csrfkit/core/token"
//
//	manager, err := token.NewManager(token.NewMemoryStore(),
//		token.WithExpiry(30*time.Minute),
//		token.WithTokenLength(15),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Issue a token for a new session
//	sess, err := manager.Issue(ctx, "")
//
//	// Check a candidate echoed by the client
//	result, err := manager.Match(ctx, sess.ID, candidate)
//	if result == token.MatchValid {
//		// request is genuine
//	}
//
//	// Prune expired sessions (run once per response, not on a timer)
//	removed, err := manager.Sweep(ctx)
//
// # Stores
//
// Three Store implementations are provided:
//
//   - token.MemoryStore: in-process map, default for tests and single-node use
//   - integration/database/pg: PostgreSQL via pgx, survives restarts
//   - integration/database/redis: Redis, shares state between instances
//
// # Reseeding
//
// Tokens come from a pseudo-random source seeded with true entropy. Every
// issuance advances a counter in the store; when it crosses the configured
// threshold (default 10000) the source is reseeded from the system entropy
// pool. The counter exchange is a single atomic operation in every store, so
// concurrent issuances cannot double-reseed or race past the threshold.
//
// # Failure Semantics
//
// Store failures surface as ErrStoreUnavailable. Match treats them as fatal
// for the caller's request; Issue reports them only when the session could
// not be persisted; a counter failure after a successful write is logged
// and swallowed, matching the fail-open posture of the response path.
package token
