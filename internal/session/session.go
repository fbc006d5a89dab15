// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the admin session manager.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Lifetime bounds an admin session; IdleTimeout ends it earlier when unused.
const (
	Lifetime    = 12 * time.Hour
	IdleTimeout = 2 * time.Hour
)

// CleanupInterval is how often expired rows are purged from the sessions table.
const CleanupInterval = 30 * time.Minute

// New creates a session manager backed by the sessions table. Production
// cookies use the __Host- prefix, which requires Secure and Path=/.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, CleanupInterval)

	sm.Lifetime = Lifetime
	sm.IdleTimeout = IdleTimeout
	sm.Cookie.Name = "studio_session"
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-studio_session"
	}

	return sm
}
