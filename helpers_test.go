package authgate_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rvalden/authgate"
	"github.com/rvalden/authgate/password"
	"github.com/rvalden/authgate/store/memory"
)

// testConfig keeps argon2 at the cheapest valid parameters so the suite stays
// fast; production defaults come from DefaultConfig.
func testConfig() authgate.Config {
	cfg := authgate.DefaultConfig()
	cfg.JWT.Secret = []byte("test-signing-secret")
	cfg.Password = authgate.PasswordConfig{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	}
	return cfg
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

type testFixture struct {
	engine *authgate.Engine
	mr     *miniredis.Miniredis
	creds  *memory.CredentialStore
	tokens *memory.RefreshTokenStore
}

func newTestEngine(t *testing.T, cfg authgate.Config) *testFixture {
	t.Helper()

	mr, rdb := newTestRedis(t)

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	creds := memory.NewCredentialStore(hasher)
	tokens := memory.NewRefreshTokenStore()

	engine, err := authgate.New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithCredentialStore(creds).
		WithRefreshTokenStore(tokens).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	return &testFixture{engine: engine, mr: mr, creds: creds, tokens: tokens}
}

func (f *testFixture) seedUser(t *testing.T, email, username, pass string) *authgate.User {
	t.Helper()

	user, err := f.creds.Create(context.Background(), email, username, pass)
	if err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	return user
}
