package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/csrfkit/core/token"
)

const alphanumerics = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("produces requested length", func(t *testing.T) {
		t.Parallel()

		gen, err := token.NewGenerator()
		require.NoError(t, err)

		for _, n := range []int{1, 12, 15, 64, 128} {
			assert.Len(t, gen.Generate(n), n)
		}
	})

	t.Run("uses only alphanumeric characters", func(t *testing.T) {
		t.Parallel()

		gen, err := token.NewGenerator()
		require.NoError(t, err)

		tok := gen.Generate(4096)
		for _, c := range tok {
			assert.True(t, strings.ContainsRune(alphanumerics, c), "unexpected character %q", c)
		}
	})

	t.Run("consecutive tokens differ", func(t *testing.T) {
		t.Parallel()

		gen, err := token.NewGenerator()
		require.NoError(t, err)

		seen := make(map[string]struct{})
		for i := 0; i < 100; i++ {
			tok := gen.Generate(15)
			_, dup := seen[tok]
			require.False(t, dup, "duplicate token %q", tok)
			seen[tok] = struct{}{}
		}
	})

	t.Run("zero length yields empty token", func(t *testing.T) {
		t.Parallel()

		gen, err := token.NewGenerator()
		require.NoError(t, err)

		assert.Empty(t, gen.Generate(0))
	})
}

func TestGenerator_SessionID(t *testing.T) {
	t.Parallel()

	gen, err := token.NewGenerator()
	require.NoError(t, err)

	id := gen.SessionID()
	assert.Len(t, id, token.SessionIDLength)
	for _, c := range id {
		assert.True(t, strings.ContainsRune(alphanumerics, c))
	}
}

func TestGenerator_Reseed(t *testing.T) {
	t.Parallel()

	gen, err := token.NewGenerator()
	require.NoError(t, err)

	require.NoError(t, gen.Reseed())

	// Generation keeps working after a reseed.
	assert.Len(t, gen.Generate(15), 15)
}
