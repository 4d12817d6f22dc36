package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	// MinPasswordBytes is the shortest accepted plaintext password.
	MinPasswordBytes = 8
)

// ErrPasswordTooShort is returned by Hash for passwords under
// [MinPasswordBytes] bytes.
var ErrPasswordTooShort = fmt.Errorf("password must be at least %d bytes", MinPasswordBytes)

// Config holds argon2id cost parameters.
type Config struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hasher hashes and verifies passwords with argon2id. Immutable after
// NewHasher; safe for concurrent use.
type Hasher struct {
	config Config
}

// NewHasher validates the cost parameters and returns a [Hasher].
func NewHasher(cfg Config) (*Hasher, error) {
	switch {
	case cfg.Memory < minMemoryKB:
		return nil, errors.New("password memory must be >= 8192 KB")
	case cfg.Time < minTimeCost:
		return nil, errors.New("password time must be >= 1")
	case cfg.Parallelism < minParallelism:
		return nil, errors.New("password parallelism must be >= 1")
	case cfg.SaltLength < minSaltLength:
		return nil, errors.New("password salt length must be >= 16")
	case cfg.KeyLength < minKeyLength:
		return nil, errors.New("password key length must be >= 16")
	}
	return &Hasher{config: cfg}, nil
}

// Hash derives a new salted argon2id hash in PHC encoding:
//
//	$argon2id$v=19$m=65536,t=3,p=2$<salt-b64>$<hash-b64>
//
// Password bytes are used exactly as provided (no Unicode normalization).
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordBytes {
		return "", ErrPasswordTooShort
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether the password matches the encoded hash. Comparison is
// constant-time. An error means the stored hash could not be parsed, never a
// plain mismatch.
func (h *Hasher) Verify(password, encodedHash string) (bool, error) {
	var (
		version     int
		memory, t   uint32
		parallelism uint8
		saltB, keyB string
	)

	n, err := fmt.Sscanf(encodedHash, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s", &version, &memory, &t, &parallelism, &saltB)
	if err != nil || n != 5 {
		return false, errors.New("invalid PHC format")
	}
	// Sscanf's %s consumes through the end; split salt and key manually.
	var ok bool
	saltB, keyB, ok = cutLast(saltB, '$')
	if !ok {
		return false, errors.New("invalid PHC format")
	}

	if version != argon2.Version {
		return false, errors.New("unsupported argon2 version")
	}
	if memory < minMemoryKB || t < minTimeCost || parallelism < minParallelism {
		return false, errors.New("argon2 parameters below policy minimum")
	}

	salt, err := base64.StdEncoding.DecodeString(saltB)
	if err != nil || len(salt) < int(minSaltLength) {
		return false, errors.New("invalid salt")
	}
	key, err := base64.StdEncoding.DecodeString(keyB)
	if err != nil || len(key) == 0 {
		return false, errors.New("invalid hash")
	}

	computed := argon2.IDKey([]byte(password), salt, t, memory, parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

func cutLast(s string, sep byte) (before, after string, found bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
