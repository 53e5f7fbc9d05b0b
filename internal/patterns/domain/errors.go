package domain

import "errors"

var (
	// ErrResultNotFound is returned when a stored analysis run does not exist.
	ErrResultNotFound = errors.New("analysis result not found")

	// ErrCacheKey is returned when a project-set cache key cannot be derived.
	ErrCacheKey = errors.New("failed to derive analysis cache key")
)
