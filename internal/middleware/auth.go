// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
)

// SessionKeyAdmin marks a session that passed the admin login.
const SessionKeyAdmin = "admin"

// RequireAdmin rejects requests without an admin session with a 401 JSON error.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdmin(sm, r) {
				slog.Debug("admin session required",
					"method", r.Method,
					"path", r.URL.Path,
					"ip", ClientIP(r),
				)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "Admin login required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IsAdmin reports whether the request carries an admin session.
func IsAdmin(sm *scs.SessionManager, r *http.Request) bool {
	return sm.GetBool(r.Context(), SessionKeyAdmin)
}
