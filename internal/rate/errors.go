package rate

import "errors"

var (
	// ErrRateLimited is returned once an email or IP has used up its window budget.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps every Redis command failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
