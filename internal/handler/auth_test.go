// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/studio-go/internal/auth"
	"github.com/olegiv/studio-go/internal/middleware"
)

func TestAdminRoutesRequireLogin(t *testing.T) {
	env := newTestEnv(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/projects"},
		{http.MethodPost, "/api/admin/projects/reorder"},
		{http.MethodDelete, "/api/admin/media/x"},
		{http.MethodGet, "/api/admin/events"},
		{http.MethodPost, "/api/admin/upload/projects/x/media"},
	}
	for _, rt := range routes {
		rec := env.do(t, request{method: rt.method, path: rt.path, body: strings.NewReader("{}")})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want %d", rt.method, rt.path, rec.Code, http.StatusUnauthorized)
		}
		if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
			t.Errorf("%s %s Cache-Control = %q, want no-store", rt.method, rt.path, cc)
		}
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	rec := env.sendJSON(t, http.MethodPost, "/api/admin/login", LoginRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeError(t, rec).Error.Code)

	cookies := env.login(t)

	rec = env.get(t, "/api/admin/session", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	status, _ := decode[SessionStatus](t, rec)
	assert.True(t, status.Admin)
	assert.True(t, status.Enabled)

	rec = env.get(t, "/api/admin/projects", cookies...)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, request{method: http.MethodPost, path: "/api/admin/logout", cookies: cookies})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.get(t, "/api/admin/projects", cookies...)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginLockout(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		d.LoginProtection = middleware.NewLoginProtection(middleware.LoginProtectionConfig{
			IPRateLimit:       1000,
			IPBurst:           1000,
			MaxFailedAttempts: 2,
			LockoutDuration:   time.Minute,
		})
	})

	rec := env.sendJSON(t, http.MethodPost, "/api/admin/login", LoginRequest{Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.sendJSON(t, http.MethodPost, "/api/admin/login", LoginRequest{Password: "nope"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "locked", decodeError(t, rec).Error.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// Even the right password is refused while locked.
	rec = env.sendJSON(t, http.MethodPost, "/api/admin/login", LoginRequest{Password: testPassword})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestLoginDisabled(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) {
		admin, err := auth.NewAdmin("")
		require.NoError(t, err)
		d.Admin = admin
	})

	rec := env.sendJSON(t, http.MethodPost, "/api/admin/login", LoginRequest{Password: testPassword})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "admin_disabled", decodeError(t, rec).Error.Code)
}

func TestAdminRejectsCrossSitePosts(t *testing.T) {
	env := newTestEnv(t)
	cookies := env.login(t)

	rec := env.do(t, request{
		method:      http.MethodPost,
		path:        "/api/admin/projects",
		body:        strings.NewReader(`{"title_en":"X"}`),
		contentType: "application/json",
		headers:     map[string]string{"Sec-Fetch-Site": "cross-site"},
		cookies:     cookies,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "csrf_failed", decodeError(t, rec).Error.Code)

	rec = env.do(t, request{
		method:      http.MethodPost,
		path:        "/api/admin/projects",
		body:        strings.NewReader(`{"title_en":"X"}`),
		contentType: "application/json",
		headers:     map[string]string{"Sec-Fetch-Site": "same-origin"},
		cookies:     cookies,
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}
