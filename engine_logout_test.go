package authgate_test

import (
	"context"
	"testing"

	"github.com/rvalden/authgate"
)

func TestLogoutRevokesToken(t *testing.T) {
	f := newTestEngine(t, testConfig())
	pair := loginPair(t, f)

	if err := f.engine.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := f.engine.Refresh(context.Background(), pair.RefreshToken); err == nil {
		t.Fatal("expected refresh to fail after logout")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	f := newTestEngine(t, testConfig())
	pair := loginPair(t, f)

	ctx := context.Background()
	if err := f.engine.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("first Logout failed: %v", err)
	}
	if err := f.engine.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
}

func TestLogoutUnknownTokenSucceeds(t *testing.T) {
	f := newTestEngine(t, testConfig())

	if err := f.engine.Logout(context.Background(), "never-issued"); err != nil {
		t.Fatalf("Logout with unknown token failed: %v", err)
	}
	if err := f.engine.Logout(context.Background(), ""); err != nil {
		t.Fatalf("Logout with empty token failed: %v", err)
	}
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	f := newTestEngine(t, testConfig())
	user := f.seedUser(t, "alice@example.com", "alice", "Secret123")

	ctx := context.Background()
	first, err := f.engine.Login(ctx, "alice@example.com", "Secret123", "10.0.0.1")
	if err != nil {
		t.Fatalf("first login failed: %v", err)
	}
	second, err := f.engine.Login(ctx, "alice@example.com", "Secret123", "10.0.0.2")
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}

	if err := f.engine.LogoutAll(ctx, user.ID); err != nil {
		t.Fatalf("LogoutAll failed: %v", err)
	}

	for _, secret := range []string{first.RefreshToken, second.RefreshToken} {
		if _, err := f.engine.Refresh(ctx, secret); err == nil {
			t.Fatal("expected refresh to fail after LogoutAll")
		}
	}

	snap := f.engine.MetricsSnapshot()
	if got := snap.Counters[authgate.MetricLogoutAll]; got != 1 {
		t.Fatalf("MetricLogoutAll = %d, want 1", got)
	}
}
