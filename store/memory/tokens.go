package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rvalden/authgate"
)

// RefreshTokenStore is an in-memory [authgate.RefreshTokenStore]. Records are
// kept forever, matching the durable stores' no-deletion contract.
type RefreshTokenStore struct {
	mu     sync.Mutex
	byID   map[string]*authgate.RefreshToken
	byHash map[string]*authgate.RefreshToken
}

// NewRefreshTokenStore creates an empty store.
func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{
		byID:   make(map[string]*authgate.RefreshToken),
		byHash: make(map[string]*authgate.RefreshToken),
	}
}

// Create stores a new active record for the digest.
func (s *RefreshTokenStore) Create(_ context.Context, userID, tokenHash string, expiresAt time.Time) (*authgate.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &authgate.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: tokenHash,
		Revoked:   false,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	s.byID[rec.ID] = rec
	s.byHash[rec.TokenHash] = rec

	return copyToken(rec), nil
}

// FindByHash returns the record for the digest in any state, or (nil, nil).
func (s *RefreshTokenStore) FindByHash(_ context.Context, tokenHash string) (*authgate.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.byHash[tokenHash]; ok {
		return copyToken(rec), nil
	}
	return nil, nil
}

// FindValidByHash returns the record for the digest only while it is active,
// or (nil, nil).
func (s *RefreshTokenStore) FindValidByHash(_ context.Context, tokenHash string) (*authgate.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byHash[tokenHash]
	if !ok || rec.StateAt(time.Now()) != authgate.TokenActive {
		return nil, nil
	}
	return copyToken(rec), nil
}

// Revoke flips the record to revoked. Compare-and-set under the store lock:
// true only for the call that performed the transition.
func (s *RefreshTokenStore) Revoke(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[tokenID]
	if !ok || rec.Revoked {
		return false, nil
	}
	rec.Revoked = true
	return true, nil
}

// RevokeAllForUser revokes every record owned by the user.
func (s *RefreshTokenStore) RevokeAllForUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.byID {
		if rec.UserID == userID {
			rec.Revoked = true
		}
	}
	return nil
}

func copyToken(t *authgate.RefreshToken) *authgate.RefreshToken {
	out := *t
	return &out
}
