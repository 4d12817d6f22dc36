package authgate

import (
	"context"
	"errors"
	"strings"

	"github.com/rvalden/authgate/password"
)

// CreateAccount registers a new user. Username is optional (empty string for
// none). The credential store hashes the password before persisting it; the
// plaintext never reaches storage.
//
// Failure modes: [ErrInvalidEmail] for a malformed email, [ErrPasswordPolicy]
// for a short password, [ErrAccountExists] when the email or username is taken,
// [ErrStoreUnavailable] for persistence failures.
func (e *Engine) CreateAccount(ctx context.Context, email, username, passwordPlain string) (*User, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(passwordPlain) < password.MinPasswordBytes {
		return nil, ErrPasswordPolicy
	}

	user, err := e.credentials.Create(ctx, email, strings.TrimSpace(username), passwordPlain)
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, ErrAccountExists
		}
		return nil, storeErr(err)
	}

	e.metricInc(MetricAccountCreated)
	e.log.Info().Str("user_id", user.ID).Msg("account created")

	return user, nil
}

// ChangePassword verifies the current password and installs a new hash. On
// success every refresh token for the user is revoked, so other sessions must
// log in again, and the login limiter counters for the user's email and
// username at clientOrigin are cleared best-effort. clientOrigin scopes the
// limiter the same way it does in [Engine.Login].
//
// Failure modes: [ErrUserNotFound], [ErrPasswordMismatch], [ErrPasswordPolicy]
// for a short new password, [ErrStoreUnavailable] for persistence failures.
func (e *Engine) ChangePassword(ctx context.Context, userID, currentPassword, newPassword, clientOrigin string) error {
	if e == nil || e.passwordHash == nil {
		return ErrEngineNotReady
	}
	if len(newPassword) < password.MinPasswordBytes {
		return ErrPasswordPolicy
	}

	user, err := e.credentials.FindByID(ctx, userID)
	if err != nil {
		return storeErr(err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	ok, err := e.passwordHash.Verify(currentPassword, user.PasswordHash)
	if err != nil || !ok {
		e.metricInc(MetricPasswordChangeFailure)
		return ErrPasswordMismatch
	}

	newHash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		return ErrPasswordPolicy
	}

	if err := e.credentials.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		return storeErr(err)
	}

	// A changed password invalidates everything the old one could mint.
	if err := e.LogoutAll(ctx, userID); err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		return err
	}

	// The user proved knowledge of the current password; a leftover failure
	// counter should not keep blocking login. Best-effort, like the reset in
	// Login.
	for _, identifier := range []string{user.Email, user.Username} {
		if identifier == "" {
			continue
		}
		if clearErr := e.limiter.Clear(ctx, identifier, clientOrigin); clearErr != nil {
			e.log.Warn().Err(clearErr).Str("identifier", identifier).
				Msg("password change limiter clear failed")
		}
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.log.Info().Str("user_id", userID).Msg("password changed")

	return nil
}

// validEmail is a shallow shape check: one @ with a dot somewhere after it.
// Real validation is delivery.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1 && !strings.ContainsAny(email, " \t")
}
