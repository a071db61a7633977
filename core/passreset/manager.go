package passreset

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oxmail/panel/core/email"
)

// Enqueuer accepts an outbound message for asynchronous delivery. Satisfied
// by *email.Dispatcher.
type Enqueuer interface {
	Enqueue(params email.SendEmailParams)
}

// Manager issues and redeems single-use password reset tokens. Pending
// requests live in memory only; a restart invalidates them all, which is
// acceptable for a flow the user can simply restart.
type Manager struct {
	mu       sync.Mutex
	pending  map[string]Request
	mail     Enqueuer
	panelURL string
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time
	genToken func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithTokenTTL overrides how long tokens stay redeemable.
func WithTokenTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager creates a reset manager that delivers reset links through mail
// and points them at panelURL.
func NewManager(mail Enqueuer, panelURL string, opts ...Option) *Manager {
	m := &Manager{
		pending:  make(map[string]Request),
		mail:     mail,
		panelURL: panelURL,
		ttl:      DefaultTokenTTL,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		genToken: randToken,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Request issues a fresh token for accountID and enqueues the reset email to
// sendTo. The email is handed to the dispatcher before the token is recorded,
// so a pending record always corresponds to a message that was at least
// offered for delivery.
func (m *Manager) Request(accountID int64, username, sendTo string) (Request, error) {
	req := Request{
		AccountID: accountID,
		Token:     m.genToken(),
		CreatedAt: m.now(),
	}

	params, err := email.RenderPasswordReset(sendTo, email.PasswordResetData{
		Username: username,
		Token:    req.Token,
		PanelURL: m.panelURL,
	})
	if err != nil {
		return Request{}, errors.Join(ErrRenderEmail, err)
	}
	m.mail.Enqueue(params)

	m.mu.Lock()
	m.pending[req.Token] = req
	m.mu.Unlock()

	m.log.Info("password reset requested", slog.Int64("account_id", accountID))
	return req, nil
}

// Get returns a copy of the pending request for token, or nil when the token
// is unknown or has aged past the TTL. Expired entries are deleted on the
// spot.
func (m *Manager) Get(token string) *Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.pending[token]
	if !ok {
		return nil
	}
	if m.now().Sub(req.CreatedAt) > m.ttl {
		delete(m.pending, token)
		return nil
	}
	out := req
	return &out
}

// Remove consumes a token. It is a no-op for unknown tokens.
func (m *Manager) Remove(token string) {
	m.mu.Lock()
	delete(m.pending, token)
	m.mu.Unlock()
}

// Len reports the number of pending requests, expired or not.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
