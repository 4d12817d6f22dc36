package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rvalden/authgate"
	"github.com/rvalden/authgate/password"
)

const uniqueViolation = "23505"

// CredentialStore is a PostgreSQL-backed [authgate.CredentialStore].
type CredentialStore struct {
	db     *sql.DB
	hasher *password.Hasher
}

// NewCredentialStore wraps a database handle. The hasher is applied to
// plaintext passwords in Create before anything touches the database.
func NewCredentialStore(db *sql.DB, hasher *password.Hasher) *CredentialStore {
	return &CredentialStore{db: db, hasher: hasher}
}

// Create hashes the password and inserts a new user. Unique violations on
// email or username map to [authgate.ErrAccountExists].
func (s *CredentialStore) Create(ctx context.Context, email, username, passwordPlain string) (*authgate.User, error) {
	hash, err := s.hasher.Hash(passwordPlain)
	if err != nil {
		return nil, err
	}

	user := &authgate.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, username, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, nullable(user.Username), user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, authgate.ErrAccountExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// FindByEmail returns the user with the given email, or (nil, nil).
func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*authgate.User, error) {
	return s.findUser(ctx, `SELECT id, email, username, password_hash, created_at
		FROM users WHERE email = $1`, email)
}

// FindByUsername returns the user with the given username, or (nil, nil).
func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*authgate.User, error) {
	if username == "" {
		return nil, nil
	}
	return s.findUser(ctx, `SELECT id, email, username, password_hash, created_at
		FROM users WHERE username = $1`, username)
}

// FindByID returns the user with the given id, or (nil, nil).
func (s *CredentialStore) FindByID(ctx context.Context, id string) (*authgate.User, error) {
	return s.findUser(ctx, `SELECT id, email, username, password_hash, created_at
		FROM users WHERE id = $1`, id)
}

// UpdatePasswordHash replaces the stored hash for the user.
func (s *CredentialStore) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, newHash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return authgate.ErrUserNotFound
	}
	return nil
}

func (s *CredentialStore) findUser(ctx context.Context, query string, arg any) (*authgate.User, error) {
	user := &authgate.User{}
	var username sql.NullString

	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.Username = username.String
	return user, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
