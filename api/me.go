package api

import (
	"errors"
	"net/http"

	"github.com/oxmail/panel/core/auth"
	"github.com/oxmail/panel/core/logger"
	"github.com/oxmail/panel/core/session"
	"github.com/oxmail/panel/core/user"
)

type meResponse struct {
	User         user.PanelUser  `json:"user"`
	Session      session.Session `json:"session"`
	Capabilities capabilities    `json:"capabilities"`
}

type capabilities struct {
	ManageUsers  bool `json:"manage_users"`
	ManageSystem bool `json:"manage_system"`
}

// handleMe returns the hydrated identity of the calling session: the full
// user record plus the capability flags the frontend gates its UI on.
func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, err := h.resolver.Resolve(r.Context())
	if errors.Is(err, auth.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "identity hydration failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		User:    identity.User,
		Session: identity.Session,
		Capabilities: capabilities{
			ManageUsers:  identity.CanManageUsers(),
			ManageSystem: identity.CanManageSystem(),
		},
	})
}
