// Package password hashes and verifies user passwords with argon2id, encoded
// in the PHC string format. The credential stores call Hash when creating a
// user; the engine calls Verify at login and password change.
package password
