package authgate

import (
	"context"
	"time"
)

// User is the identity record managed by a [CredentialStore]. Username is
// optional; an empty string means the account has no username and only the
// email can be used as a login identifier.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// TokenState is the validity state of a [RefreshToken] record.
type TokenState uint8

const (
	// TokenActive means the record is neither revoked nor expired and can be
	// used for rotation.
	TokenActive TokenState = iota
	// TokenExpired means the record outlived its expiry without being revoked.
	TokenExpired
	// TokenRevoked means the record was consumed by rotation or logout.
	// Terminal: a revoked record never becomes active again.
	TokenRevoked
)

// String returns the lowercase state name.
func (s TokenState) String() string {
	switch s {
	case TokenActive:
		return "active"
	case TokenExpired:
		return "expired"
	case TokenRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// RefreshToken is the persisted record of an issued refresh secret. TokenHash
// is the hex-encoded SHA-256 digest of the opaque secret; the secret itself is
// returned to the caller exactly once and never stored.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	Revoked   bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// StateAt reports the record's validity state at the given instant. Revocation
// wins over expiry: both are terminal, but a revoked record reports
// [TokenRevoked] regardless of its expiry.
func (t *RefreshToken) StateAt(now time.Time) TokenState {
	if t.Revoked {
		return TokenRevoked
	}
	if !t.ExpiresAt.After(now) {
		return TokenExpired
	}
	return TokenActive
}

// TokenPair is the result of a successful Login or Refresh. RefreshToken is
// the raw opaque secret; the caller is responsible for transporting it (for
// example in an HTTP-only cookie) and must treat it as shown-once.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// CredentialStore is the collaborator that persists user identities and
// password hashes. Implementations must hash the plaintext password given to
// Create with a strong adaptive function before persisting it; see
// store/postgres and store/memory.
//
// Find methods return (nil, nil) when no user matches.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, email, username, passwordPlain string) (*User, error)
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error
}

// RefreshTokenStore is the collaborator that persists refresh-token records
// keyed by token digest. Records are never deleted by the Engine; revoked and
// expired rows remain queryable.
//
// Find methods return (nil, nil) when no record matches. FindValidByHash only
// matches records whose state is [TokenActive].
//
// Revoke must be compare-and-set: it reports true only when this call moved
// the record from active to revoked, and false (with a nil error) when the
// record was already revoked or does not exist. The Engine relies on that
// for the single-use guarantee of rotation; logout ignores the flag for
// idempotency.
type RefreshTokenStore interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*RefreshToken, error)
	FindByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	FindValidByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenID string) (bool, error)
	RevokeAllForUser(ctx context.Context, userID string) error
}
