package auth

import (
	"context"
	"errors"

	"github.com/oxmail/panel/core/user"
)

// UserProvider hydrates full user records from the relational store.
// *user.Store is the production implementation.
type UserProvider interface {
	// GetByID returns the active user with group permissions, or nil when
	// no such user exists.
	GetByID(ctx context.Context, id int64) (*user.PanelUser, error)
}

// Resolver turns the request's raw session into a hydrated Identity. The
// lookup is a database round trip, so callers must pass the request context.
type Resolver struct {
	users UserProvider
}

// NewResolver creates a resolver backed by the given user provider.
func NewResolver(users UserProvider) *Resolver {
	return &Resolver{users: users}
}

// Resolve loads the full user record for the raw session attached to ctx.
// Returns ErrUnauthorized when no raw session is present or when the user no
// longer exists (deleted after session issuance).
func (r *Resolver) Resolve(ctx context.Context) (Identity, error) {
	raw, ok := RawSessionFromContext(ctx)
	if !ok {
		return Identity{}, ErrUnauthorized
	}

	u, err := r.users.GetByID(ctx, raw.Session.UserID)
	if err != nil {
		return Identity{}, errors.Join(ErrHydration, err)
	}
	if u == nil {
		return Identity{}, ErrUnauthorized
	}

	return NewSessionIdentity(*u, raw.Session), nil
}
