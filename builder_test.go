package authgate_test

import (
	"testing"
	"time"

	"github.com/rvalden/authgate"
)

func TestBuildRequiresSecret(t *testing.T) {
	_, rdb := newTestRedis(t)
	f := newTestEngine(t, testConfig())

	cfg := testConfig()
	cfg.JWT.Secret = nil

	_, err := authgate.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithCredentialStore(f.creds).
		WithRefreshTokenStore(f.tokens).
		Build()
	if err == nil {
		t.Fatal("expected Build to fail without a signing secret")
	}
}

func TestBuildRequiresStores(t *testing.T) {
	_, rdb := newTestRedis(t)

	_, err := authgate.New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		Build()
	if err == nil {
		t.Fatal("expected Build to fail without stores")
	}
}

func TestBuildRequiresRedis(t *testing.T) {
	f := newTestEngine(t, testConfig())

	_, err := authgate.New().
		WithConfig(testConfig()).
		WithCredentialStore(f.creds).
		WithRefreshTokenStore(f.tokens).
		Build()
	if err == nil {
		t.Fatal("expected Build to fail without redis")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*authgate.Config)
	}{
		{"zero access ttl", func(c *authgate.Config) { c.JWT.AccessTTL = 0 }},
		{"zero refresh ttl", func(c *authgate.Config) { c.JWT.RefreshTTL = 0 }},
		{"bad signing method", func(c *authgate.Config) { c.JWT.SigningMethod = "rs256" }},
		{"empty issuer", func(c *authgate.Config) { c.JWT.Issuer = "" }},
		{"zero attempts", func(c *authgate.Config) { c.Security.MaxLoginAttempts = 0 }},
		{"zero cooldown", func(c *authgate.Config) { c.Security.LoginCooldownDuration = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := authgate.DefaultConfig()

	if cfg.JWT.AccessTTL != 15*time.Minute {
		t.Fatalf("AccessTTL = %v, want 15m", cfg.JWT.AccessTTL)
	}
	if cfg.JWT.RefreshTTL != 30*24*time.Hour {
		t.Fatalf("RefreshTTL = %v, want 720h", cfg.JWT.RefreshTTL)
	}
	if cfg.JWT.Issuer != "authgate" {
		t.Fatalf("Issuer = %q, want authgate", cfg.JWT.Issuer)
	}
	if cfg.Security.MaxLoginAttempts != 3 || cfg.Security.LoginCooldownDuration != 10*time.Minute {
		t.Fatalf("unexpected rate-limit defaults: %+v", cfg.Security)
	}
}
