package authgate

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rvalden/authgate/internal/rate"
	"github.com/rvalden/authgate/password"
	"github.com/rvalden/authgate/token"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the first Engine method call.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	credentials CredentialStore
	tokens      RefreshTokenStore
	logger      zerolog.Logger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the Redis client backing the login rate limiter. Required.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCredentialStore sets the user identity store. Required.
func (b *Builder) WithCredentialStore(s CredentialStore) *Builder {
	b.credentials = s
	return b
}

// WithRefreshTokenStore sets the refresh-token record store. Required.
func (b *Builder) WithRefreshTokenStore(s RefreshTokenStore) *Builder {
	b.tokens = s
	return b
}

// WithLogger sets the structured logger for engine events. Defaults to a
// no-op logger.
func (b *Builder) WithLogger(l zerolog.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and dependencies and returns the Engine.
// A Builder can be used once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.credentials == nil {
		return nil, errors.New("credential store required")
	}
	if b.tokens == nil {
		return nil, errors.New("refresh token store required")
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	tm, err := token.NewManager(token.Config{
		AccessTTL:     cfg.JWT.AccessTTL,
		SigningMethod: token.SigningMethod(cfg.JWT.SigningMethod),
		Secret:        cloneBytes(cfg.JWT.Secret),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Issuer:        cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:      cfg,
		credentials: b.credentials,
		tokens:      b.tokens,
		limiter: rate.New(b.redis, rate.Config{
			MaxAttempts: cfg.Security.MaxLoginAttempts,
			Window:      cfg.Security.LoginCooldownDuration,
		}),
		accessTokens: tm,
		passwordHash: hasher,
		metrics:      NewMetrics(cfg.Metrics),
		log:          b.logger,
	}

	b.built = true

	return engine, nil
}
