// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strconv"
)

// CacheControl sets the Cache-Control header before the handler runs.
// Handlers may still override it.
func CacheControl(directive string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", directive)
			next.ServeHTTP(w, r)
		})
	}
}

// StaticCache marks responses as publicly cacheable for maxAge seconds.
func StaticCache(maxAge int) func(http.Handler) http.Handler {
	return CacheControl("public, max-age=" + strconv.Itoa(maxAge))
}

// NoStore keeps admin responses out of shared and browser caches.
func NoStore(next http.Handler) http.Handler {
	return CacheControl("no-store")(next)
}
