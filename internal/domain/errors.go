package domain

import "errors"

var (
	// ErrNoResults is returned when a session has no stored search results
	// to show or add from.
	ErrNoResults = errors.New("no search results for session")

	// ErrEmptySelection is returned when an add command resolves to zero
	// valid items.
	ErrEmptySelection = errors.New("selection matched no items")

	// ErrRateLimited is returned when a client exceeds the per-IP limit.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSessionMiss is returned when a session has no stored state.
	ErrSessionMiss = errors.New("session not found")

	// ErrStorefrontFailure is returned when browser automation against the
	// storefront fails.
	ErrStorefrontFailure = errors.New("storefront automation failed")
)
