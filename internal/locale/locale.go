// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale decides which of the two site languages a request is
// rendered in and builds the cookie that remembers that decision.
package locale

import (
	"net/http"
	"strings"
)

// Locale is a supported display language.
type Locale string

// Supported locales.
const (
	EN Locale = "en"
	DE Locale = "de"
)

// Default is used when no signal matches.
const Default = EN

// Cookie settings for the persisted locale choice.
const (
	CookieName   = "locale"
	CookieMaxAge = 31536000 // 1 year
	CookiePath   = "/"
)

// DefaultGeoHeader carries the ISO-3166 country code set by the edge.
const DefaultGeoHeader = "X-Vercel-IP-Country"

// germanCountries are resolved to DE from the geo signal.
var germanCountries = map[string]struct{}{
	"DE": {},
	"AT": {},
	"CH": {},
}

// Parse returns the locale for an exact cookie value.
// Anything other than "en" or "de" is reported as not ok.
func Parse(s string) (Locale, bool) {
	switch Locale(s) {
	case EN, DE:
		return Locale(s), true
	}
	return "", false
}

// String implements fmt.Stringer.
func (l Locale) String() string { return string(l) }

// Other returns the opposite locale, used by the language toggle.
func (l Locale) Other() Locale {
	if l == DE {
		return EN
	}
	return DE
}

// Source records which signal produced a Decision.
type Source int

// Decision sources in precedence order.
const (
	SourceCookie Source = iota
	SourceGeo
	SourceHeader
	SourceDefault
)

func (s Source) String() string {
	switch s {
	case SourceCookie:
		return "cookie"
	case SourceGeo:
		return "geo"
	case SourceHeader:
		return "header"
	default:
		return "default"
	}
}

// Signals are the request inputs the resolver looks at. Empty fields are absent.
type Signals struct {
	Cookie         string
	Country        string
	AcceptLanguage string
}

// Decision is the resolved locale and where it came from.
type Decision struct {
	Locale Locale
	Source Source
}

// NeedsCookie reports whether the decision must be persisted.
// A decision taken from an existing cookie is never written again.
func (d Decision) NeedsCookie() bool {
	return d.Source != SourceCookie
}

// Resolve applies the precedence chain: cookie, geo country, primary
// Accept-Language tag, default. It never fails.
func Resolve(s Signals) Decision {
	if l, ok := Parse(s.Cookie); ok {
		return Decision{Locale: l, Source: SourceCookie}
	}

	if IsGermanCountry(s.Country) {
		return Decision{Locale: DE, Source: SourceGeo}
	}

	if strings.HasPrefix(strings.ToLower(primaryTag(s.AcceptLanguage)), "de") {
		return Decision{Locale: DE, Source: SourceHeader}
	}

	return Decision{Locale: Default, Source: SourceDefault}
}

// IsGermanCountry reports whether a country code maps to German.
func IsGermanCountry(country string) bool {
	_, ok := germanCountries[strings.ToUpper(strings.TrimSpace(country))]
	return ok
}

// primaryTag returns the first language range of an Accept-Language value
// with its weight stripped, e.g. "de-DE" for "de-DE,en;q=0.9".
func primaryTag(header string) string {
	first, _, _ := strings.Cut(header, ",")
	tag, _, _ := strings.Cut(first, ";")
	return strings.TrimSpace(tag)
}

// SignalsFromRequest collects the resolver inputs from an HTTP request.
// geoHeader falls back to DefaultGeoHeader when empty.
func SignalsFromRequest(r *http.Request, geoHeader string) Signals {
	if geoHeader == "" {
		geoHeader = DefaultGeoHeader
	}

	var s Signals
	if c, err := r.Cookie(CookieName); err == nil {
		s.Cookie = c.Value
	}
	s.Country = r.Header.Get(geoHeader)
	s.AcceptLanguage = r.Header.Get("Accept-Language")
	return s
}

// NewCookie builds the persistent locale cookie. It is readable by scripts
// because the client-side toggle rewrites it.
func NewCookie(l Locale, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    l.String(),
		Path:     CookiePath,
		MaxAge:   CookieMaxAge,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
