// Package token constructs and verifies the signed access tokens issued by
// the engine. Access tokens are self-contained: subject, issuer, issued-at
// and expiry under an HMAC-SHA-256 or Ed25519 signature, with no server-side
// record and no revocation list.
package token
