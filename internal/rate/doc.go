// Package rate implements the fixed-window login attempt limiter backed by
// Redis counters. Counters are keyed by identifier+origin; mutation is atomic
// per key (Redis INCR), with no ordering guarantee across keys.
package rate
