package api

import (
	"errors"
	"net/http"

	"github.com/oxmail/panel/core/logger"
	"github.com/oxmail/panel/core/user"
	"github.com/oxmail/panel/pkg/password"
)

type resetRequestBody struct {
	BackupEmail string `json:"backup_email"`
}

// handleResetRequest starts a password reset. The response is 204 regardless
// of whether the address matches an account, so the endpoint cannot be used
// to enumerate backup addresses.
func (h *Handler) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequestBody
	if err := decodeJSON(r, &req); err != nil || req.BackupEmail == "" {
		writeError(w, http.StatusBadRequest, "backup_email is required")
		return
	}

	u, err := h.users.GetByBackupEmail(r.Context(), req.BackupEmail)
	if err != nil {
		h.log.ErrorContext(r.Context(), "user lookup failed", logger.Error(err))
	}
	if u != nil {
		if _, err := h.resets.Request(u.ID, u.Username, u.BackupEmail); err != nil {
			h.log.ErrorContext(r.Context(), "reset request failed",
				logger.UserID(u.ID), logger.Error(err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleResetVerify reports whether a reset token is still redeemable, so the
// frontend can show the form or an error without submitting a password.
func (h *Handler) handleResetVerify(w http.ResponseWriter, r *http.Request) {
	if h.resets.Get(r.PathValue("token")) == nil {
		writeError(w, http.StatusNotFound, "unknown or expired token")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type resetSubmitBody struct {
	Password string `json:"password"`
}

func (h *Handler) handleResetSubmit(w http.ResponseWriter, r *http.Request) {
	var req resetSubmitBody
	if err := decodeJSON(r, &req); err != nil || req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	token := r.PathValue("token")
	pending := h.resets.Get(token)
	if pending == nil {
		writeError(w, http.StatusNotFound, "unknown or expired token")
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		h.log.ErrorContext(r.Context(), "password hashing failed", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.users.UpdatePassword(r.Context(), pending.AccountID, hash); err != nil {
		// Account deleted (or deactivated) after the token was issued.
		if errors.Is(err, user.ErrNotFound) {
			h.resets.Remove(token)
			writeError(w, http.StatusNotFound, "unknown or expired token")
			return
		}
		h.log.ErrorContext(r.Context(), "password update failed",
			logger.UserID(pending.AccountID), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Consume only after the new password is durably stored; a failed update
	// leaves the token usable for a retry.
	h.resets.Remove(token)

	h.log.InfoContext(r.Context(), "password reset completed",
		logger.UserID(pending.AccountID))
	w.WriteHeader(http.StatusNoContent)
}
