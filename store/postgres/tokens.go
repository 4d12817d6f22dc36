package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rvalden/authgate"
)

// RefreshTokenStore is a PostgreSQL-backed [authgate.RefreshTokenStore].
type RefreshTokenStore struct {
	db *sql.DB
}

// NewRefreshTokenStore wraps a database handle.
func NewRefreshTokenStore(db *sql.DB) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

// Create inserts a new active record for the digest.
func (s *RefreshTokenStore) Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (*authgate.RefreshToken, error) {
	rec := &authgate.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		Revoked:   false,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (id, user_id, token_hash, revoked, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.UserID, rec.TokenHash, rec.Revoked, rec.ExpiresAt, rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert refresh token: %w", err)
	}

	return rec, nil
}

// FindByHash returns the record for the digest in any state, or (nil, nil).
func (s *RefreshTokenStore) FindByHash(ctx context.Context, tokenHash string) (*authgate.RefreshToken, error) {
	return s.findToken(ctx,
		`SELECT id, user_id, token_hash, revoked, expires_at, created_at
		 FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
}

// FindValidByHash returns the record for the digest only while it is neither
// revoked nor expired, or (nil, nil). Both predicates are evaluated in one
// query against the database clock.
func (s *RefreshTokenStore) FindValidByHash(ctx context.Context, tokenHash string) (*authgate.RefreshToken, error) {
	return s.findToken(ctx,
		`SELECT id, user_id, token_hash, revoked, expires_at, created_at
		 FROM refresh_tokens
		 WHERE token_hash = $1 AND revoked = FALSE AND expires_at > NOW()`, tokenHash)
}

// Revoke flips the record to revoked. Compare-and-set: the WHERE clause only
// matches a still-active row, so exactly one of any set of concurrent callers
// observes true.
func (s *RefreshTokenStore) Revoke(ctx context.Context, tokenID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1 AND revoked = FALSE`, tokenID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

// RevokeAllForUser revokes every record owned by the user.
func (s *RefreshTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh tokens for user: %w", err)
	}
	return nil
}

func (s *RefreshTokenStore) findToken(ctx context.Context, query, tokenHash string) (*authgate.RefreshToken, error) {
	rec := &authgate.RefreshToken{}

	err := s.db.QueryRowContext(ctx, query, tokenHash).
		Scan(&rec.ID, &rec.UserID, &rec.TokenHash, &rec.Revoked, &rec.ExpiresAt, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find refresh token: %w", err)
	}

	return rec, nil
}
