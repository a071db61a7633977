package pg

import "errors"

var (
	// ErrInvalidConfig is returned when the connection string cannot be parsed.
	ErrInvalidConfig = errors.New("invalid postgres configuration")
	// ErrFailedToConnect is returned when the pool cannot be established.
	ErrFailedToConnect = errors.New("failed to connect to postgres")
	// ErrMigration wraps schema migration failures.
	ErrMigration = errors.New("failed to apply migrations")
	// ErrHealthcheck wraps readiness probe failures.
	ErrHealthcheck = errors.New("postgres healthcheck failed")
)
