package csrf

import "errors"

// Validation failures. Each names the precise reason a request was rejected;
// the middleware logs the reason and then applies the configured failure
// action, which is the same for all of them.
var (
	// ErrNoSessionCookie is returned when the request carries no session
	// cookie, so there is nothing to validate a token against.
	ErrNoSessionCookie = errors.New("no session cookie on request")
	// ErrTokenMissing is returned when no candidate token was supplied in
	// either the query string or the token header.
	ErrTokenMissing = errors.New("no token supplied")
	// ErrTokenMismatch is returned when the supplied token differs from the
	// one stored for the session.
	ErrTokenMismatch = errors.New("token does not match")
	// ErrTokenExpired is returned when the stored token's validity window
	// has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrSessionUnknown is returned when the session id is not present in
	// the token store.
	ErrSessionUnknown = errors.New("session unknown to token store")
)

// Configuration errors, rejected at load time.
var (
	// ErrTokenLengthBelowMinimum is returned when the configured token
	// length is below the brute-force floor.
	ErrTokenLengthBelowMinimum = errors.New("token length below minimum")
	// ErrEmptyTokenName is returned when the token field name is empty.
	ErrEmptyTokenName = errors.New("token name must not be empty")
	// ErrInvalidIgnorePattern is returned when the ignore pattern does not
	// compile.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
	// ErrInvalidRulePattern is returned when a GET-validation rule pattern
	// does not compile.
	ErrInvalidRulePattern = errors.New("invalid rule pattern")
)
