package session

import "time"

// Config holds session subsystem configuration.
type Config struct {
	// DBPath is the bbolt database file holding session records.
	DBPath string `env:"SESSION_DB_PATH" envDefault:"sessions.db"`
	// Lifetime is how long a freshly issued session stays valid.
	Lifetime time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
	// CleanupInterval is the period of the expired-session sweep.
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}
