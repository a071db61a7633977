package server

import "errors"

var (
	// ErrMissingAddress is returned when no listen address is configured.
	ErrMissingAddress = errors.New("server address is required")
	// ErrAlreadyRunning is returned by Start when the server is running.
	ErrAlreadyRunning = errors.New("server is already running")
	// ErrShutdown wraps graceful shutdown failures.
	ErrShutdown = errors.New("server shutdown error")
	// ErrTLSConfig wraps TLS certificate loading failures.
	ErrTLSConfig = errors.New("failed to load TLS configuration")
)
