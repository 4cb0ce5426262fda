package domain

import "errors"

var (
	// ErrProfileNotFound signals a missing taste profile.
	ErrProfileNotFound = errors.New("taste profile not found")
	// ErrUnauthorized signals a rejected credential on an upstream call.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an upstream access denial.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound signals a missing upstream endpoint or resource.
	ErrNotFound = errors.New("not found")
	// ErrRateLimited signals an exhausted upstream rate limit.
	ErrRateLimited = errors.New("rate limited")
	// ErrInsightsUnavailable signals an insights provider failure after retries.
	ErrInsightsUnavailable = errors.New("insights provider unavailable")
	// ErrCompletionUnavailable signals a completion provider failure across all models.
	ErrCompletionUnavailable = errors.New("completion provider unavailable")
	// ErrInvalidIntent signals completion output that fails intent schema validation.
	ErrInvalidIntent = errors.New("invalid intent payload")
)
