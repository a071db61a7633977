package auth

import (
	"github.com/oxmail/panel/core/session"
	"github.com/oxmail/panel/core/user"
)

// RawSession is the ephemeral per-request value produced by the session
// middleware: proof that the request carried a token matching a live session.
// It is consumed at most once by the Resolver and never outlives the request.
type RawSession struct {
	Session session.Session
}

// Permissions is the capability query surface handlers check before acting.
// Checks are pure reads of flags captured at hydration time; they never touch
// storage, so permission changes take effect on the next request.
type Permissions interface {
	CanManageUsers() bool
	CanManageSystem() bool
}

// Identity is a hydrated authenticated caller: the full user record joined
// with the session that authenticated it. Constructed per request, never
// cached. Modeled as a kind-tagged value so future credential types (API
// tokens) can be added without disturbing call sites.
type Identity struct {
	kind    identityKind
	User    user.PanelUser
	Session session.Session
}

type identityKind uint8

const identitySession identityKind = iota

// NewSessionIdentity builds an Identity for a session-authenticated user.
func NewSessionIdentity(u user.PanelUser, s session.Session) Identity {
	return Identity{kind: identitySession, User: u, Session: s}
}

// CanManageUsers reports whether the caller may modify accounts.
func (i Identity) CanManageUsers() bool {
	return i.User.GroupPermissions.ModifyAccounts
}

// CanManageSystem reports whether the caller may manage server settings.
func (i Identity) CanManageSystem() bool {
	return i.User.GroupPermissions.ManageSystem
}

var _ Permissions = Identity{}
