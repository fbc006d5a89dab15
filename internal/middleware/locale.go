// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/olegiv/studio-go/internal/locale"
)

// Context keys for the resolved locale.
const (
	ContextKeyLocale        ContextKey = "locale"
	ContextKeyLocaleHandled ContextKey = "locale_handled"
)

// CountryLookup maps a client IP to an ISO country code, "" when unknown.
type CountryLookup interface {
	Country(ip string) string
}

// LocaleConfig configures the locale middleware.
type LocaleConfig struct {
	// GeoHeader names the edge country header. Empty means locale.DefaultGeoHeader.
	GeoHeader string
	// GeoIP is consulted when the geo header is absent. May be nil.
	GeoIP CountryLookup
	// Secure marks the written cookie as HTTPS-only.
	Secure bool
}

// cookieless paths still get a decision but never a Set-Cookie. The
// public API is the localized surface and does get the cookie.
var cookielessPrefixes = []string{"/media/", "/api/admin/", "/health"}

var cookielessExts = map[string]bool{
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".ico":  true,
}

func skipsCookie(p string) bool {
	if p == "/favicon.ico" {
		return true
	}
	for _, prefix := range cookielessPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return cookielessExts[strings.ToLower(path.Ext(p))]
}

// Signals collects resolver inputs, filling the country from GeoIP when the
// edge did not provide one.
func (cfg LocaleConfig) Signals(r *http.Request) locale.Signals {
	s := locale.SignalsFromRequest(r, cfg.GeoHeader)
	if strings.TrimSpace(s.Country) == "" && cfg.GeoIP != nil {
		s.Country = cfg.GeoIP.Country(ClientIP(r))
	}
	return s
}

// FromRequest returns the decision stored by Locale, or recomputes it with
// the same precedence. It never writes a cookie.
func (cfg LocaleConfig) FromRequest(r *http.Request) locale.Decision {
	if d, ok := LocaleFromContext(r.Context()); ok {
		return d
	}
	return locale.Resolve(cfg.Signals(r))
}

// Locale resolves the request locale once at the edge. The decision and a
// handled marker go into the context; the cookie is written only when the
// decision did not come from an existing cookie.
func Locale(cfg LocaleConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := locale.Resolve(cfg.Signals(r))

			if d.NeedsCookie() && !skipsCookie(r.URL.Path) {
				http.SetCookie(w, locale.NewCookie(d.Locale, cfg.Secure))
			}

			ctx := context.WithValue(r.Context(), ContextKeyLocale, d)
			ctx = context.WithValue(ctx, ContextKeyLocaleHandled, true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LocaleFromContext returns the decision stored by Locale.
func LocaleFromContext(ctx context.Context) (locale.Decision, bool) {
	d, ok := ctx.Value(ContextKeyLocale).(locale.Decision)
	return d, ok
}

// RequestLocale is the locale for messages outside the localized handlers,
// such as error bodies. Without the edge middleware it is locale.Default.
func RequestLocale(r *http.Request) locale.Locale {
	if d, ok := LocaleFromContext(r.Context()); ok {
		return d.Locale
	}
	return locale.Default
}

// LocaleHandled reports whether the edge middleware already ran.
func LocaleHandled(r *http.Request) bool {
	handled, _ := r.Context().Value(ContextKeyLocaleHandled).(bool)
	return handled
}
