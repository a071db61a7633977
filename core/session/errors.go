package session

import "errors"

var (
	// ErrOpenStore is returned when the embedded database cannot be opened.
	ErrOpenStore = errors.New("failed to open session store")
	// ErrCreateSession is returned when the create transaction cannot commit.
	ErrCreateSession = errors.New("failed to create session")
	// ErrReadStore is returned when a read transaction fails.
	ErrReadStore = errors.New("failed to read session store")
	// ErrDeleteSession is returned when the delete transaction cannot commit.
	ErrDeleteSession = errors.New("failed to delete session")
	// ErrCleanup is returned when the expired-session sweep fails.
	ErrCleanup = errors.New("failed to sweep expired sessions")
)
