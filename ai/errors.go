package ai

import "errors"

var (
	// ErrRateLimited indicates the upstream model service rejected a call
	// due to rate limiting. Callers may treat this as retryable.
	ErrRateLimited = errors.New("model service rate limited")

	// ErrService indicates a non-rate-limit failure of the model service.
	ErrService = errors.New("model service error")
)
