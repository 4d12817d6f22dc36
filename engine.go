package authgate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rvalden/authgate/internal"
	"github.com/rvalden/authgate/internal/rate"
	"github.com/rvalden/authgate/password"
	"github.com/rvalden/authgate/token"
)

// Engine drives the login, refresh, and logout flows against the credential
// store, the refresh-token store, and the rate limiter. It owns
// policy (TTLs, attempt thresholds); the stores own persistence.
//
// Engine instances are built once through [Builder.Build] and are immutable
// afterwards; all methods are safe for concurrent use.
type Engine struct {
	config       Config
	credentials  CredentialStore
	tokens       RefreshTokenStore
	limiter      *rate.Limiter
	accessTokens *token.Manager
	passwordHash *password.Hasher
	metrics      *Metrics
	log          zerolog.Logger
}

// Login authenticates an identifier/password pair and issues a token pair.
// The identifier is matched against emails first, then usernames. clientOrigin
// scopes the rate-limit counter together with the identifier and must be
// supplied by the transport layer (typically the client IP).
//
// Failure modes: [RateLimitedError] (unwraps to [ErrLoginRateLimited]) when
// the attempt budget is exhausted, [ErrInvalidCredentials] for an unknown
// identifier or wrong password (never distinguished), [ErrStoreUnavailable]
// for persistence failures.
func (e *Engine) Login(ctx context.Context, identifier, passwordPlain, clientOrigin string) (*TokenPair, error) {
	if e == nil || e.passwordHash == nil {
		return nil, ErrEngineNotReady
	}

	blocked, err := e.limiter.TooManyAttempts(ctx, identifier, clientOrigin)
	if err != nil {
		return nil, storeErr(err)
	}
	if blocked {
		wait, availErr := e.limiter.AvailableIn(ctx, identifier, clientOrigin)
		if availErr != nil {
			return nil, storeErr(availErr)
		}
		e.metricInc(MetricLoginRateLimited)
		e.log.Warn().Str("identifier", identifier).Str("origin", clientOrigin).
			Dur("retry_after", wait).Msg("login rate limited")
		return nil, &RateLimitedError{RetryAfter: wait}
	}

	user, err := e.resolveUser(ctx, identifier)
	if err != nil {
		return nil, storeErr(err)
	}

	// An absent user and a wrong password take the same path from here on:
	// the counter is hit and the caller sees ErrInvalidCredentials.
	verified := false
	if user != nil {
		ok, verr := e.passwordHash.Verify(passwordPlain, user.PasswordHash)
		verified = verr == nil && ok
	}
	if !verified {
		if hitErr := e.limiter.Hit(ctx, identifier, clientOrigin); hitErr != nil {
			return nil, storeErr(hitErr)
		}
		e.metricInc(MetricLoginFailure)
		e.log.Info().Str("identifier", identifier).Str("origin", clientOrigin).
			Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	// Counter reset is best-effort: a stale counter only shortens the budget
	// for future failures, it cannot lock out this successful login.
	if clearErr := e.limiter.Clear(ctx, identifier, clientOrigin); clearErr != nil {
		e.log.Warn().Err(clearErr).Str("identifier", identifier).
			Msg("login limiter clear failed")
	}

	pair, err := e.issueTokenPair(ctx, user.ID)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	return pair, nil
}

// Refresh rotates a refresh token: the presented secret is digested, its
// record must be active, and it is revoked before a fresh pair is issued for
// the owning user. Each secret is single-use; concurrent calls with the same
// secret produce exactly one winner.
//
// Failure modes: [ErrRefreshInvalid] when the record is absent, expired, or
// already revoked; [ErrStoreUnavailable] for persistence failures.
func (e *Engine) Refresh(ctx context.Context, rawRefreshToken string) (*TokenPair, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if rawRefreshToken == "" {
		e.metricInc(MetricRefreshFailure)
		return nil, ErrRefreshInvalid
	}

	digest := internal.DigestToken(rawRefreshToken)

	rec, err := e.tokens.FindValidByHash(ctx, digest)
	if err != nil {
		return nil, storeErr(err)
	}
	if rec == nil {
		e.metricInc(MetricRefreshFailure)
		e.log.Info().Msg("refresh rejected: unknown, expired, or revoked token")
		return nil, ErrRefreshInvalid
	}

	rotated, err := e.tokens.Revoke(ctx, rec.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if !rotated {
		// Lost the race against a concurrent refresh of the same secret.
		e.metricInc(MetricRefreshFailure)
		e.log.Info().Str("user_id", rec.UserID).Msg("refresh rejected: token already consumed")
		return nil, ErrRefreshInvalid
	}

	// The old token is consumed at this point. If issuance below fails the
	// caller is left without a valid refresh token and must log in again;
	// accepted tradeoff of revoke-before-issue, which keeps a failed refresh
	// from ever leaving two live secrets.
	pair, err := e.issueTokenPair(ctx, rec.UserID)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.log.Info().Str("user_id", rec.UserID).Msg("refresh token rotated")

	return pair, nil
}

// Logout revokes the record matching the presented refresh token, regardless
// of its state. Unknown tokens and already-revoked records succeed silently so
// the response never leaks validity. Only a persistence failure surfaces, as
// [ErrStoreUnavailable].
func (e *Engine) Logout(ctx context.Context, rawRefreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if rawRefreshToken == "" {
		return nil
	}

	rec, err := e.tokens.FindByHash(ctx, internal.DigestToken(rawRefreshToken))
	if err != nil {
		return storeErr(err)
	}
	if rec == nil {
		return nil
	}

	if _, err := e.tokens.Revoke(ctx, rec.ID); err != nil {
		return storeErr(err)
	}

	e.metricInc(MetricLogout)
	e.log.Info().Str("user_id", rec.UserID).Msg("refresh token revoked on logout")

	return nil
}

// LogoutAll revokes every refresh token belonging to the user ("log out
// everywhere"). Access tokens already in flight stay valid until expiry.
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return storeErr(err)
	}

	e.metricInc(MetricLogoutAll)
	e.log.Info().Str("user_id", userID).Msg("all refresh tokens revoked")

	return nil
}

// VerifyAccess checks an access token's signature, issuer, and expiry and
// returns the subject user id. Purely CPU-bound; no store round-trip.
func (e *Engine) VerifyAccess(tokenStr string) (string, error) {
	if e == nil || e.accessTokens == nil {
		return "", ErrEngineNotReady
	}

	claims, err := e.accessTokens.Parse(tokenStr)
	if err != nil {
		return "", err
	}

	return claims.Subject, nil
}

func (e *Engine) resolveUser(ctx context.Context, identifier string) (*User, error) {
	user, err := e.credentials.FindByEmail(ctx, identifier)
	if err != nil || user != nil {
		return user, err
	}
	return e.credentials.FindByUsername(ctx, identifier)
}
