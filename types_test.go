package authgate_test

import (
	"testing"
	"time"

	"github.com/rvalden/authgate"
)

func TestRefreshTokenStateAt(t *testing.T) {
	now := time.Now()

	active := authgate.RefreshToken{ExpiresAt: now.Add(time.Hour)}
	if got := active.StateAt(now); got != authgate.TokenActive {
		t.Fatalf("StateAt = %v, want active", got)
	}

	expired := authgate.RefreshToken{ExpiresAt: now.Add(-time.Minute)}
	if got := expired.StateAt(now); got != authgate.TokenExpired {
		t.Fatalf("StateAt = %v, want expired", got)
	}

	// Revocation wins over expiry.
	both := authgate.RefreshToken{Revoked: true, ExpiresAt: now.Add(-time.Minute)}
	if got := both.StateAt(now); got != authgate.TokenRevoked {
		t.Fatalf("StateAt = %v, want revoked", got)
	}

	revoked := authgate.RefreshToken{Revoked: true, ExpiresAt: now.Add(time.Hour)}
	if got := revoked.StateAt(now); got != authgate.TokenRevoked {
		t.Fatalf("StateAt = %v, want revoked", got)
	}
}

func TestTokenStateString(t *testing.T) {
	for state, want := range map[authgate.TokenState]string{
		authgate.TokenActive:  "active",
		authgate.TokenExpired: "expired",
		authgate.TokenRevoked: "revoked",
	} {
		if got := state.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
