package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oxmail/panel/core/auth"
	"github.com/oxmail/panel/core/session"
)

// SessionCookieName is the cookie carrying the session token for browser
// clients.
const SessionCookieName = "session"

// authScheme is the only Authorization scheme the panel accepts.
const authScheme = "session"

// SessionLookup resolves a token to its live session. *session.Manager is
// the production implementation.
type SessionLookup interface {
	// Get returns the session for id, or nil when no such session exists.
	Get(ctx context.Context, id string) (*session.Session, error)
}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Sessions resolves tokens to live sessions (required).
	Sessions SessionLookup
	// Logger for structured logging (default: slog with io.Discard).
	Logger *slog.Logger
}

// Session creates middleware that extracts the caller's session token,
// resolves it, and attaches the raw session to the request context.
//
// Token extraction order:
//   - "Authorization: session <token>" header, which wins over the cookie.
//     Any other Authorization scheme is rejected with 400 before the inner
//     handler runs.
//   - The "session" cookie.
//
// A request with no token, an unknown token, or an expired-but-unswept
// session proceeds anonymously: no raw session is attached and downstream
// authorization decides the response. Storage failures return 500.
//
// CORS preflight (OPTIONS) requests pass through untouched.
func Session(sessions SessionLookup) func(http.Handler) http.Handler {
	return SessionWithConfig(SessionConfig{Sessions: sessions})
}

// SessionWithConfig creates the session middleware with custom configuration.
func SessionWithConfig(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Sessions == nil {
		panic("session middleware: session lookup is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := extractToken(r)
			if !ok {
				http.Error(w, "unsupported authorization scheme", http.StatusBadRequest)
				return
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := cfg.Sessions.Get(r.Context(), token)
			if err != nil {
				cfg.Logger.ErrorContext(r.Context(), "session lookup failed",
					slog.Any("error", err))
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			// An expired session that the sweeper has not reaped yet is
			// indistinguishable from a missing one.
			if sess == nil || sess.IsExpired() {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.WithRawSession(r.Context(), auth.RawSession{Session: *sess})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token from the Authorization header or the
// session cookie. The second return is false when the header carries a
// scheme other than "session".
func extractToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, authScheme) || token == "" {
			return "", false
		}
		return token, true
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", true
	}
	return cookie.Value, true
}
