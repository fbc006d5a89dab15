// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studio-go/internal/i18n"
	"github.com/olegiv/studio-go/internal/locale"
	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/render"
	"github.com/olegiv/studio-go/internal/service"
)

// PublicHandler serves the public, localized portfolio API.
type PublicHandler struct {
	portfolio *service.Portfolio
	markdown  *render.Markdown
	locale    middleware.LocaleConfig
	logger    *slog.Logger
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(p *service.Portfolio, md *render.Markdown, lc middleware.LocaleConfig, logger *slog.Logger) *PublicHandler {
	if md == nil {
		md = render.NewMarkdown()
	}
	return &PublicHandler{portfolio: p, markdown: md, locale: lc, logger: logger}
}

// ProjectView is a project rendered in one locale.
type ProjectView struct {
	ID              string      `json:"id"`
	Slug            string      `json:"slug"`
	Title           string      `json:"title"`
	Subtitle        string      `json:"subtitle,omitempty"`
	DescriptionHTML string      `json:"description_html,omitempty"`
	Role            string      `json:"role,omitempty"`
	Client          string      `json:"client,omitempty"`
	Year            int         `json:"year,omitempty"`
	Category        string      `json:"category,omitempty"`
	ThumbnailURL    string      `json:"thumbnail_url,omitempty"`
	Position        int         `json:"position"`
	Media           []MediaView `json:"media,omitempty"`
}

// MediaView is a medium as served to the site.
type MediaView struct {
	ID       string          `json:"id"`
	Type     model.MediaType `json:"type"`
	URL      string          `json:"url"`
	AltText  string          `json:"alt_text,omitempty"`
	Position int             `json:"position"`
}

func (h *PublicHandler) projectView(p model.Project, l locale.Locale) ProjectView {
	return ProjectView{
		ID:              p.ID,
		Slug:            p.Slug,
		Title:           p.Title(l),
		Subtitle:        p.Subtitle(l),
		DescriptionHTML: h.markdown.HTML(p.Description(l)),
		Role:            p.Role,
		Client:          p.Client,
		Year:            p.Year,
		Category:        p.Category,
		ThumbnailURL:    p.ThumbnailURL(),
		Position:        p.Position,
	}
}

func mediaViews(media []model.Media) []MediaView {
	out := make([]MediaView, 0, len(media))
	for _, m := range media {
		out = append(out, MediaView{
			ID:       m.ID,
			Type:     m.Type,
			URL:      m.URL(),
			AltText:  m.AltText,
			Position: m.Position,
		})
	}
	return out
}

// localeMeta tells the client which locale the response was rendered in.
type localeMeta struct {
	Locale string `json:"locale"`
	Source string `json:"source"`
	Total  int    `json:"total,omitempty"`
}

// Projects handles GET /api/projects. Each project carries its media.
func (h *PublicHandler) Projects(w http.ResponseWriter, r *http.Request) {
	d := h.locale.FromRequest(r)
	projects, err := h.portfolio.PublishedProjects(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	media, err := h.portfolio.MediaByProject(r.Context(), ids)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		view := h.projectView(p, d.Locale)
		view.Media = mediaViews(media[p.ID])
		views = append(views, view)
	}
	writeSuccess(w, views, localeMeta{Locale: d.Locale.String(), Source: d.Source.String(), Total: len(views)})
}

// Project handles GET /api/projects/{slug}.
func (h *PublicHandler) Project(w http.ResponseWriter, r *http.Request) {
	d := h.locale.FromRequest(r)
	p, media, err := h.portfolio.ProjectBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	view := h.projectView(p, d.Locale)
	view.Media = mediaViews(media)
	writeSuccess(w, view, localeMeta{Locale: d.Locale.String(), Source: d.Source.String()})
}

// Dictionary handles GET /api/dictionary and returns the UI strings of the
// request locale.
func (h *PublicHandler) Dictionary(w http.ResponseWriter, r *http.Request) {
	d := h.locale.FromRequest(r)
	writeSuccess(w, i18n.Dictionary(d.Locale.String()), localeMeta{Locale: d.Locale.String(), Source: d.Source.String()})
}

// SetLocale handles POST /locale. An explicit locale=en|de is stored; no
// value flips the current locale. Script callers get 204, forms are
// redirected back.
func (h *PublicHandler) SetLocale(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid_form", "Invalid form data", nil)
		return
	}

	var next locale.Locale
	if v := r.FormValue("locale"); v != "" {
		l, ok := locale.Parse(v)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "validation_error", "error.validation",
				map[string]string{"locale": "must be en or de"})
			return
		}
		next = l
	} else {
		next = h.locale.FromRequest(r).Locale.Other()
	}

	replaceCookie(w, locale.NewCookie(next, h.locale.Secure))
	h.logger.Debug("locale changed", "locale", next.String())

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// replaceCookie sets c, dropping a cookie of the same name that the locale
// middleware queued earlier in this response.
func replaceCookie(w http.ResponseWriter, c *http.Cookie) {
	h := w.Header()
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, c.Name+"=") {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}
	http.SetCookie(w, c)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// backTo returns the path of a same-host Referer, or "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	if strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	back := ref.Path
	if ref.RawQuery != "" {
		back += "?" + ref.RawQuery
	}
	return back
}
