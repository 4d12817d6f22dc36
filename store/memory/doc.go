// Package memory provides mutex-guarded in-memory implementations of the
// authgate store contracts. Intended for tests, examples, and single-process
// development setups; nothing survives a restart.
package memory
