package token

import "time"

// Session binds a browser session to its current anti-forgery token.
// The ID travels in an HTTP-only cookie, the Token in a script-visible one;
// a request proves itself by echoing the token that the store holds for its
// session id.
type Session struct {
	// ID is the opaque session identifier (store primary key).
	ID string

	// Token is the anti-forgery value currently issued for this session.
	Token string

	// IssuedAt is when the token was issued or last replaced. Sessions older
	// than the configured expiry window fail matching and are removed by Sweep.
	IssuedAt time.Time
}

// MatchResult is the outcome of comparing a candidate token against the
// stored token for a session.
type MatchResult int

const (
	// MatchValid means the stored token equals the candidate and is fresh.
	MatchValid MatchResult = iota
	// MatchNoMatch means a token exists for the session but differs.
	MatchNoMatch
	// MatchNotFound means no session with the given id exists in the store.
	MatchNotFound
	// MatchExpired means the stored token's expiry window has elapsed.
	MatchExpired
)

// String returns a short label for logging.
func (r MatchResult) String() string {
	switch r {
	case MatchValid:
		return "valid"
	case MatchNoMatch:
		return "no_match"
	case MatchNotFound:
		return "not_found"
	case MatchExpired:
		return "expired"
	default:
		return "unknown"
	}
}
