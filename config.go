package authgate

import (
	"errors"
	"time"
)

// Config holds every tunable of the engine. Zero values are not usable;
// start from [DefaultConfig] and override. The signing secret has no default
// and must always be provided.
type Config struct {
	JWT      JWTConfig
	Security SecurityConfig
	Password PasswordConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig controls access-token signing and both token lifetimes.
type JWTConfig struct {
	// AccessTTL is the access-token lifetime. Default 15 minutes.
	AccessTTL time.Duration
	// RefreshTTL is the refresh-token lifetime. Default 30 days.
	RefreshTTL time.Duration
	// SigningMethod is "hs256" (default) or "ed25519".
	SigningMethod string
	// Secret is the HMAC secret for hs256, or the Ed25519 private key (raw or
	// PEM) for ed25519. Required, no default.
	Secret []byte
	// PublicKey is the Ed25519 verify key. Ignored for hs256.
	PublicKey []byte
	// Issuer is the constant iss claim. Default "authgate".
	Issuer string
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig controls the login rate-limit policy. Counters are keyed by
// identifier+origin; exceeding MaxLoginAttempts failures within
// LoginCooldownDuration blocks further attempts until the window expires.
type SecurityConfig struct {
	MaxLoginAttempts      int           // default 3
	LoginCooldownDuration time.Duration // default 10 minutes
}

/*
====================================
PASSWORD CONFIG
====================================
*/

// PasswordConfig holds argon2id parameters for the password hasher shared by
// the engine and the credential stores.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters exposed through
// [Engine.MetricsSnapshot].
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration: 15 minute access tokens,
// 30 day refresh tokens, HS256 signing, 3 login attempts per 10 minute
// window. The signing secret is left empty and must be set by the caller.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    30 * 24 * time.Hour,
			SigningMethod: "hs256",
			Issuer:        "authgate",
		},
		Security: SecurityConfig{
			MaxLoginAttempts:      3,
			LoginCooldownDuration: 10 * time.Minute,
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.JWT.AccessTTL <= 0 {
		return errors.New("JWT AccessTTL must be > 0")
	}
	if c.JWT.RefreshTTL <= 0 {
		return errors.New("JWT RefreshTTL must be > 0")
	}
	switch c.JWT.SigningMethod {
	case "hs256", "ed25519":
	default:
		return errors.New("JWT SigningMethod must be hs256 or ed25519")
	}
	if len(c.JWT.Secret) == 0 {
		return errors.New("JWT Secret is required")
	}
	if c.JWT.Issuer == "" {
		return errors.New("JWT Issuer must not be empty")
	}
	if c.Security.MaxLoginAttempts <= 0 {
		return errors.New("MaxLoginAttempts must be > 0")
	}
	if c.Security.LoginCooldownDuration <= 0 {
		return errors.New("LoginCooldownDuration must be > 0")
	}
	return nil
}

func cloneConfig(c Config) Config {
	out := c
	out.JWT.Secret = cloneBytes(c.JWT.Secret)
	out.JWT.PublicKey = cloneBytes(c.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
