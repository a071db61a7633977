package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/oxmail/panel/core/auth"
	"github.com/oxmail/panel/core/passreset"
	"github.com/oxmail/panel/core/session"
	"github.com/oxmail/panel/core/user"
)

// DefaultSessionLifetime is how long a login session lasts before the
// sweeper may reap it.
const DefaultSessionLifetime = 24 * time.Hour

// SessionManager is the session surface the handlers need. Satisfied by
// *session.Manager.
type SessionManager interface {
	Create(ctx context.Context, userID int64, lifetime time.Duration) (session.Session, error)
	Delete(ctx context.Context, id string) (*session.Session, error)
}

// UserStore is the account surface the handlers need. Satisfied by
// *user.Store.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*user.PanelUser, error)
	GetByBackupEmail(ctx context.Context, email string) (*user.PanelUser, error)
	UpdatePassword(ctx context.Context, accountID int64, passwordHash string) error
}

// ResetManager is the password reset surface the handlers need. Satisfied by
// *passreset.Manager.
type ResetManager interface {
	Request(accountID int64, username, sendTo string) (passreset.Request, error)
	Get(token string) *passreset.Request
	Remove(token string)
}

// IdentityResolver hydrates the request's session into a full identity.
// Satisfied by *auth.Resolver.
type IdentityResolver interface {
	Resolve(ctx context.Context) (auth.Identity, error)
}

// Handler serves the authentication endpoints: login, logout, and the
// password reset flow.
type Handler struct {
	sessions SessionManager
	users    UserStore
	resets   ResetManager
	resolver IdentityResolver
	lifetime time.Duration
	log      *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithSessionLifetime overrides the lifetime of sessions created at login.
func WithSessionLifetime(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.lifetime = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHandler creates the auth handler over its collaborators.
func NewHandler(sessions SessionManager, users UserStore, resets ResetManager, resolver IdentityResolver, opts ...Option) *Handler {
	h := &Handler{
		sessions: sessions,
		users:    users,
		resets:   resets,
		resolver: resolver,
		lifetime: DefaultSessionLifetime,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes registers the auth endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/login", h.handleLogin)
	mux.HandleFunc("GET /auth/logout", h.handleLogout)
	mux.HandleFunc("GET /auth/me", h.handleMe)
	mux.HandleFunc("POST /auth/reset/request", h.handleResetRequest)
	mux.HandleFunc("GET /auth/reset/verify/{token}", h.handleResetVerify)
	mux.HandleFunc("POST /auth/reset/submit/{token}", h.handleResetSubmit)
}
