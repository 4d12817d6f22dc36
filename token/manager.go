package token

import (
	"crypto/ed25519"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the access-token signature algorithm.
type SigningMethod string

const (
	// MethodHS256 signs with HMAC-SHA-256 using a shared secret.
	MethodHS256 SigningMethod = "hs256"
	// MethodEd25519 signs with an Ed25519 private key.
	MethodEd25519 SigningMethod = "ed25519"
)

// ErrTokenInvalid is returned by Parse for any token that fails signature,
// claim, or expiry validation.
var ErrTokenInvalid = errors.New("invalid access token")

// Config holds the signing parameters for a [Manager].
type Config struct {
	AccessTTL     time.Duration
	SigningMethod SigningMethod
	// Secret is the HMAC secret for hs256, or the Ed25519 private key
	// (raw 64 bytes or PEM) for ed25519.
	Secret []byte
	// PublicKey is the Ed25519 verify key (raw 32 bytes or PEM). Optional for
	// ed25519 when Secret is a full private key; ignored for hs256.
	PublicKey []byte
	Issuer    string
}

// Manager creates and parses access tokens. Immutable after NewManager;
// safe for concurrent use.
type Manager struct {
	config    Config
	signKey   any
	verifyKey any
}

// Claims is the decoded access-token claim set. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// NewManager validates the configuration and prepares the signing keys.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Issuer == "" {
		return nil, errors.New("issuer required")
	}

	m := &Manager{config: cfg}

	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.Secret) == 0 {
			return nil, errors.New("hs256 requires a secret")
		}
		m.signKey = cfg.Secret
		m.verifyKey = cfg.Secret
	case MethodEd25519:
		priv, err := parseEdPrivateKey(cfg.Secret)
		if err != nil {
			return nil, err
		}
		m.signKey = priv
		if len(cfg.PublicKey) > 0 {
			pub, err := parseEdPublicKey(cfg.PublicKey)
			if err != nil {
				return nil, err
			}
			m.verifyKey = pub
		} else {
			m.verifyKey = priv.Public()
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	return m, nil
}

// Create signs a new access token for the given subject. Claims are exactly
// {sub, iss, iat, exp}; expiry is now plus the configured AccessTTL.
func (m *Manager) Create(subject string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTTL)),
		},
	}

	return jwt.NewWithClaims(m.method(), claims).SignedString(m.signKey)
}

// Parse verifies signature, issuer and expiry and returns the claims.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return m.verifyKey, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

func (m *Manager) method() jwt.SigningMethod {
	if m.config.SigningMethod == MethodEd25519 {
		return jwt.SigningMethodEdDSA
	}
	return jwt.SigningMethodHS256
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
