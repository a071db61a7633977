package auth

import "errors"

var (
	// ErrUnauthorized is returned when no session is attached to the request
	// or the session's user no longer exists.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrHydration is returned when the user lookup itself fails.
	ErrHydration = errors.New("failed to load user record")
)
