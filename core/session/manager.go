package session

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

// Manager owns the session store and the lifecycle of every session: it
// creates, fetches and deletes records and runs the periodic sweep that
// evicts expired ones.
type Manager struct {
	store Store
	log   *slog.Logger

	// running gates the sweep loop. It defaults to running when the loop
	// starts and can be cleared with Stop for cooperative shutdown.
	running atomic.Bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger used by the cleanup sweep.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create issues a new session for userID valid for lifetime. A storage
// failure here is fatal to the request that triggered it.
func (m *Manager) Create(ctx context.Context, userID int64, lifetime time.Duration) (Session, error) {
	return m.store.Create(ctx, userID, lifetime)
}

// Get fetches a session by id, returning nil when absent. Expiry checking is
// left to the caller.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Delete removes the session, returning it when it existed. Used on logout.
func (m *Manager) Delete(ctx context.Context, id string) (*Session, error) {
	return m.store.Delete(ctx, id)
}

// CleanupExpired runs one sweep over the store, removing every session whose
// expiry is in the past, and returns the number removed.
func (m *Manager) CleanupExpired(ctx context.Context) (int, error) {
	return m.store.DeleteExpired(ctx, time.Now())
}

// RunCleaner sweeps expired sessions on a fixed interval until ctx is
// cancelled or Stop is called. A failed sweep is logged and retried at half
// the interval. Blocks; run it in its own goroutine.
func (m *Manager) RunCleaner(ctx context.Context, interval time.Duration) error {
	m.running.Store(true)

	for m.running.Load() {
		wait := interval

		removed, err := m.CleanupExpired(ctx)
		switch {
		case err != nil:
			m.log.Error("session sweep failed", slog.Any("error", err))
			wait = interval / 2
		case removed > 0:
			m.log.Debug("session sweep removed expired sessions", slog.Int("removed", removed))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil
}

// Stop asks the sweep loop to exit after its current iteration.
func (m *Manager) Stop() {
	m.running.Store(false)
}
