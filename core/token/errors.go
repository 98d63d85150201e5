package token

import "errors"

var (
	// ErrSessionNotFound is returned by Store.Get when no session exists
	// for the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreUnavailable indicates the backing store could not be reached
	// or a statement failed. Validation callers treat it as fatal for the
	// request; the regeneration path treats it as a degraded but deliverable
	// response.
	ErrStoreUnavailable = errors.New("token store unavailable")
	// ErrEntropyUnavailable is returned when the generator cannot read seed
	// material from the system entropy source.
	ErrEntropyUnavailable = errors.New("failed to read entropy source")
)
