package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHasher(t *testing.T) *Hasher {
	t.Helper()

	h, err := NewHasher(Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	require.NoError(t, err)
	return h
}

func TestHashVerifyRoundTrip(t *testing.T) {
	h := testHasher(t)

	encoded, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v="))

	ok, err := h.Verify("Secret123", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong-pass", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSaltsAreUnique(t *testing.T) {
	h := testHasher(t)

	first, err := h.Hash("Secret123")
	require.NoError(t, err)
	second, err := h.Hash("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashRejectsShortPassword(t *testing.T) {
	h := testHasher(t)

	_, err := h.Hash("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	// Exactly 8 bytes passes.
	_, err = h.Hash("12345678")
	assert.NoError(t, err)
}

func TestVerifyAcrossParameterSets(t *testing.T) {
	// Parameters live in the encoding, so any hasher verifies any policy-valid
	// hash.
	h1 := testHasher(t)
	h2, err := NewHasher(Config{
		Memory:      16 * 1024,
		Time:        2,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	})
	require.NoError(t, err)

	encoded, err := h2.Hash("Secret123")
	require.NoError(t, err)

	ok, err := h1.Verify("Secret123", encoded)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	h := testHasher(t)

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$only-one-segment",
	} {
		_, err := h.Verify("Secret123", encoded)
		assert.Error(t, err, "hash %q", encoded)
	}
}

func TestVerifyRejectsWeakParameters(t *testing.T) {
	h := testHasher(t)

	// m=1024 is below the policy floor; the hash is refused outright.
	weak := "$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA==$aGFzaGhhc2hoYXNoaGFzaA=="
	_, err := h.Verify("Secret123", weak)
	assert.Error(t, err)
}

func TestNewHasherRejectsWeakConfig(t *testing.T) {
	cases := []Config{
		{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 16},
		{Memory: 8192, Time: 0, Parallelism: 1, SaltLength: 16, KeyLength: 16},
		{Memory: 8192, Time: 1, Parallelism: 0, SaltLength: 16, KeyLength: 16},
		{Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16},
		{Memory: 8192, Time: 1, Parallelism: 1, SaltLength: 16, KeyLength: 8},
	}
	for _, cfg := range cases {
		_, err := NewHasher(cfg)
		assert.Error(t, err, "config %+v", cfg)
	}
}
