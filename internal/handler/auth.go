// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/studio-go/internal/auth"
	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/model"
)

// AuthHandler handles the admin login.
type AuthHandler struct {
	sessionManager  *scs.SessionManager
	admin           *auth.Admin
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil.
func NewAuthHandler(sm *scs.SessionManager, admin *auth.Admin, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		sessionManager:  sm,
		admin:           admin,
		loginProtection: lp,
		logger:          logger,
	}
}

// LoginRequest is the body of POST /api/admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.admin.Enabled() {
		middleware.WriteError(w, http.StatusForbidden, "admin_disabled", "Admin login is not configured", nil)
		return
	}

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	clientIP := middleware.ClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsLocked(clientIP); locked {
			writeLocked(w, remaining)
			return
		}
	}

	if !h.admin.Verify(req.Password) {
		h.logger.Warn("admin login failed", "category", model.EventCategoryAuth, "ip", clientIP)
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailure(clientIP); locked {
				writeLocked(w, lockDuration)
				return
			}
		}
		writeError(w, r, http.StatusUnauthorized, "invalid_credentials", "error.unauthorized", nil)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccess(clientIP)
	}

	// New token against session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, fmt.Errorf("renewing session token: %w", err))
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyAdmin, true)

	h.logger.Info("admin logged in", "category", model.EventCategoryAuth, "ip", clientIP)
	w.WriteHeader(http.StatusNoContent)
}

// Logout handles POST /api/admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, fmt.Errorf("destroying session: %w", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SessionStatus is the body of GET /api/admin/session.
type SessionStatus struct {
	Admin   bool `json:"admin"`
	Enabled bool `json:"enabled"`
}

// Session handles GET /api/admin/session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, SessionStatus{
		Admin:   middleware.IsAdmin(h.sessionManager, r),
		Enabled: h.admin.Enabled(),
	}, nil)
}

func writeLocked(w http.ResponseWriter, remaining time.Duration) {
	seconds := int(remaining.Round(time.Second).Seconds())
	w.Header().Set("Retry-After", fmt.Sprint(max(seconds, 1)))
	middleware.WriteError(w, http.StatusTooManyRequests, "locked",
		"Too many failed login attempts, try again in "+remaining.Round(time.Second).String(), nil)
}
