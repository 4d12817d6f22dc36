package rate

import "errors"

// ErrRedisUnavailable wraps any Redis transport failure.
var ErrRedisUnavailable = errors.New("redis unavailable")
