// Package internal holds secret generation and digest helpers shared by the
// engine. Nothing here is part of the public API.
package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// refreshSecretBytes yields a 64-character base64url secret, matching the
// stored digest column width of 64 hex characters on the lookup side.
const refreshSecretBytes = 48

// NewRefreshSecret returns a fresh opaque refresh secret: 48 random bytes
// encoded as 64 characters of unpadded base64url.
func NewRefreshSecret() (string, error) {
	var raw [refreshSecretBytes]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// DigestToken returns the hex-encoded SHA-256 digest of a raw refresh secret.
// Deterministic: the same secret always digests to the same value, which is
// the storage lookup key.
func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
