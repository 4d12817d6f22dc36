package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rvalden/authgate"
	"github.com/rvalden/authgate/password"
)

// CredentialStore is an in-memory [authgate.CredentialStore]. Passwords are
// hashed with the injected hasher before they are kept.
type CredentialStore struct {
	mu     sync.Mutex
	hasher *password.Hasher
	users  map[string]*authgate.User // by id
}

// NewCredentialStore creates an empty store hashing with the given hasher.
func NewCredentialStore(hasher *password.Hasher) *CredentialStore {
	return &CredentialStore{
		hasher: hasher,
		users:  make(map[string]*authgate.User),
	}
}

// Create hashes the plaintext password and stores a new user. Email and
// username uniqueness is enforced; collisions return
// [authgate.ErrAccountExists].
func (s *CredentialStore) Create(_ context.Context, email, username, passwordPlain string) (*authgate.User, error) {
	hash, err := s.hasher.Hash(passwordPlain)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email || (username != "" && u.Username == username) {
			return nil, authgate.ErrAccountExists
		}
	}

	user := &authgate.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user

	return copyUser(user), nil
}

// FindByEmail returns the user with the given email, or (nil, nil).
func (s *CredentialStore) FindByEmail(_ context.Context, email string) (*authgate.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// FindByUsername returns the user with the given username, or (nil, nil).
// The empty username never matches.
func (s *CredentialStore) FindByUsername(_ context.Context, username string) (*authgate.User, error) {
	if username == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

// FindByID returns the user with the given id, or (nil, nil).
func (s *CredentialStore) FindByID(_ context.Context, id string) (*authgate.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, ok := s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

// UpdatePasswordHash replaces the stored hash for the user.
func (s *CredentialStore) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return authgate.ErrUserNotFound
	}
	u.PasswordHash = newHash
	return nil
}

func copyUser(u *authgate.User) *authgate.User {
	out := *u
	return &out
}
