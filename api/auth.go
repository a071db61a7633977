package api

import (
	"net/http"

	"github.com/oxmail/panel/core/logger"
	"github.com/oxmail/panel/core/session"
	"github.com/oxmail/panel/core/user"
	"github.com/oxmail/panel/middleware"
	"github.com/oxmail/panel/pkg/password"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User    user.PanelUser  `json:"user"`
	Session session.Session `json:"session"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	u, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		h.log.ErrorContext(r.Context(), "user lookup failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if u == nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	ok, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil {
		h.log.ErrorContext(r.Context(), "stored password hash unreadable",
			logger.UserID(u.ID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	sess, err := h.sessions.Create(r.Context(), u.ID, h.lifetime)
	if err != nil {
		h.log.ErrorContext(r.Context(), "session create failed",
			logger.UserID(u.ID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Browser-session cookie: no Max-Age, the server-side expiry is
	// authoritative.
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.ID,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})

	h.log.InfoContext(r.Context(), "login", logger.UserID(u.ID))
	writeJSON(w, http.StatusOK, loginResponse{User: *u, Session: sess})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.log.ErrorContext(r.Context(), "session delete failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}
