// Package authgate implements the credential and token lifecycle core of a web
// application: signed short-lived JWT access tokens, long-lived opaque refresh
// tokens with single-use rotation, and Redis-backed login rate limiting.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Engine], [Builder], [Config],
// the store contracts ([CredentialStore], [RefreshTokenStore]) and value types
// ([User], [RefreshToken], [TokenPair]). Secret generation, digesting, and
// rate-limit coordination live under internal/ and are never exported. Store
// implementations live under store/ and may be replaced by callers.
//
// # What this package must NOT do
//
//   - Persist a raw refresh secret. Only its SHA-256 digest ever reaches a
//     store.
//   - Keep a server-side record of access tokens. Their validity is determined
//     purely by signature and expiry.
//   - Retry failed store operations, or delete refresh-token rows. Revoked and
//     expired records stay queryable for audit.
//
// # Rotation contract
//
// Each refresh secret is single-use. Refresh revokes the presented record
// before issuing a replacement, and the revoke is compare-and-set: of N
// concurrent Refresh calls with the same secret, exactly one succeeds and the
// rest fail with [ErrRefreshInvalid].
package authgate
