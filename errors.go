package authgate

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials is returned by Login on an unknown identifier or a
	// password mismatch. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRateLimited is returned by Login when the attempt budget for the
	// identifier+origin pair is exhausted. Returned wrapped in a
	// [RateLimitedError] carrying the remaining wait.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrRefreshInvalid is returned by Refresh when the presented token is
	// unknown, expired, or already revoked. The cases are not distinguished.
	ErrRefreshInvalid = errors.New("invalid or expired refresh token")
	// ErrUserNotFound is returned by ChangePassword for an unknown user id.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordMismatch is returned by ChangePassword when the current
	// password does not verify.
	ErrPasswordMismatch = errors.New("current password does not match")
	// ErrAccountExists is returned by CreateAccount when the email or username
	// is already taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrPasswordPolicy is returned when a new password fails validation.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrInvalidEmail is returned by CreateAccount for a malformed email.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrStoreUnavailable wraps any persistence failure. Never retried here;
	// retry policy belongs to the store or transport layer.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is returned when an Engine method is called on a nil
	// or incompletely built engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// RateLimitedError reports an exhausted login attempt budget together with the
// time remaining until the window resets. It unwraps to [ErrLoginRateLimited]
// so callers can branch with errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("login rate limited, retry in %s", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error { return ErrLoginRateLimited }

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
