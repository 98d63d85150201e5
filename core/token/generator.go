package token

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	mrand "math/rand"
	"sync"
)

// alphabet is the 62-symbol output alphabet. Generated bytes are reduced
// into it by modulo, so ids and tokens are always plain alphanumerics.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// SessionIDLength is the fixed length of generated session identifiers.
const SessionIDLength = 10

// Generator produces session ids and anti-forgery tokens from a pseudo-random
// source seeded with true entropy at construction. The source is deliberately
// a PRNG rather than crypto/rand per call: the manager reseeds it from the
// system entropy pool every reseed-threshold issuances.
type Generator struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewGenerator creates a generator seeded from the system entropy source.
func NewGenerator() (*Generator, error) {
	seed, err := entropySeed()
	if err != nil {
		return nil, errors.Join(ErrEntropyUnavailable, err)
	}
	return &Generator{rng: mrand.New(mrand.NewSource(seed))}, nil
}

// Generate returns a new token of the given length.
func (g *Generator) Generate(length int) string {
	buf := make([]byte, length)

	g.mu.Lock()
	g.rng.Read(buf) // never fails per math/rand contract
	g.mu.Unlock()

	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}

// SessionID returns a new session identifier of SessionIDLength symbols.
func (g *Generator) SessionID() string {
	return g.Generate(SessionIDLength)
}

// Reseed replaces the generator's seed with fresh material from the system
// entropy source. Called by the manager on every counter threshold crossing.
func (g *Generator) Reseed() error {
	seed, err := entropySeed()
	if err != nil {
		return errors.Join(ErrEntropyUnavailable, err)
	}

	g.mu.Lock()
	g.rng.Seed(seed)
	g.mu.Unlock()
	return nil
}

func entropySeed() (int64, error) {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}
