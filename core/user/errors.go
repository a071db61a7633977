package user

import "errors"

var (
	// ErrQueryUser is returned when the user lookup query fails.
	ErrQueryUser = errors.New("failed to query user")
	// ErrUpdateUser is returned when a user update cannot be applied.
	ErrUpdateUser = errors.New("failed to update user")
	// ErrNotFound is returned when an update targets a missing account.
	ErrNotFound = errors.New("user not found")
)
