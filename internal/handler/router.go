// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/studio-go/internal/auth"
	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/render"
	"github.com/olegiv/studio-go/internal/scheduler"
	"github.com/olegiv/studio-go/internal/service"
	"github.com/olegiv/studio-go/internal/storage"
	"github.com/olegiv/studio-go/internal/store"
	"github.com/olegiv/studio-go/internal/version"
)

// Route prefixes
const (
	RouteAPI    = "/api"
	RouteAdmin  = "/api/admin"
	RouteUpload = "/api/admin/upload"
	RouteMedia  = "/media"
	RouteLocale = "/locale"
	RouteHealth = "/health"
)

// Timeouts and cache lifetimes
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultUploadTimeout  = 5 * time.Minute
	MediaMaxAge           = 31536000 // 1 year, file names are unique
)

// Deps are the dependencies of the HTTP layer.
type Deps struct {
	Logger          *slog.Logger
	DB              *sql.DB
	Portfolio       *service.Portfolio
	Contact         *service.Contact
	Markdown        *render.Markdown
	Sessions        *scs.SessionManager
	Admin           *auth.Admin
	LoginProtection *middleware.LoginProtection
	ContactLimiter  *middleware.RateLimiter
	Scheduler       *scheduler.Scheduler
	Bucket          *storage.Bucket
	Locale          middleware.LocaleConfig
	Version         version.Info
	CSRFKey         []byte
	IsDevelopment   bool
	RequestTimeout  time.Duration
	UploadTimeout   time.Duration
}

// NewRouter builds the chi router serving the public and admin APIs.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	requestTimeout := d.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}
	uploadTimeout := d.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = DefaultUploadTimeout
	}

	var queries *store.Queries
	if d.DB != nil {
		queries = store.New(d.DB)
	}

	public := NewPublicHandler(d.Portfolio, d.Markdown, d.Locale, logger)
	contact := NewContactHandler(d.Contact, logger)
	admin := NewAdminHandler(d.Portfolio, queries, d.Scheduler, logger)
	authHandler := NewAuthHandler(d.Sessions, d.Admin, d.LoginProtection, logger)
	health := NewHealthHandler(d.DB, d.Portfolio.Source(), d.Version)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(requestTimeout, RouteMedia+"/", RouteUpload+"/"))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(d.IsDevelopment)))
	r.Use(middleware.Locale(d.Locale))
	r.Use(middleware.SkipCSRF(RouteAPI + "/contact"))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig(d.CSRFKey, d.IsDevelopment)))

	r.Get(RouteHealth, health.Health)
	r.Get(RouteHealth+"/live", health.Liveness)

	if d.Bucket != nil {
		r.With(middleware.StaticCache(MediaMaxAge)).
			Handle(RouteMedia+"/*", http.StripPrefix(RouteMedia, d.Bucket.Handler()))
	}

	r.Post(RouteLocale, public.SetLocale)
	r.Get(RouteAPI+"/projects", public.Projects)
	r.Get(RouteAPI+"/projects/{slug}", public.Project)
	r.Get(RouteAPI+"/dictionary", public.Dictionary)

	contactRoute := r.With()
	if d.ContactLimiter != nil {
		contactRoute = r.With(d.ContactLimiter.Middleware())
	}
	contactRoute.Post(RouteAPI+"/contact", contact.Submit)

	r.Group(func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(d.Sessions.LoadAndSave)

		loginRoute := r.With()
		if d.LoginProtection != nil {
			loginRoute = r.With(d.LoginProtection.Middleware())
		}
		loginRoute.Post(RouteAdmin+"/login", authHandler.Login)
		r.Post(RouteAdmin+"/logout", authHandler.Logout)
		r.Get(RouteAdmin+"/session", authHandler.Session)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(d.Sessions))

			r.Get(RouteAdmin+"/projects", admin.ListProjects)
			r.Post(RouteAdmin+"/projects", admin.CreateProject)
			r.Post(RouteAdmin+"/projects/reorder", admin.ReorderProjects)
			r.Get(RouteAdmin+"/projects/{id}", admin.GetProject)
			r.Patch(RouteAdmin+"/projects/{id}", admin.UpdateProject)
			r.Delete(RouteAdmin+"/projects/{id}", admin.DeleteProject)
			r.Get(RouteAdmin+"/projects/{id}/media", admin.ListMedia)
			r.Post(RouteAdmin+"/projects/{id}/media/reorder", admin.ReorderMedia)

			r.Patch(RouteAdmin+"/media/{id}", admin.UpdateMedia)
			r.Delete(RouteAdmin+"/media/{id}", admin.DeleteMedia)
			r.Post(RouteAdmin+"/media/{id}/move", admin.MoveMedia)

			r.Get(RouteAdmin+"/events", admin.ListEvents)
			r.Get(RouteAdmin+"/jobs", admin.ListJobs)
			r.Post(RouteAdmin+"/jobs/{name}/run", admin.RunJob)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(uploadTimeout))
				r.Post(RouteUpload+"/projects/{id}/thumbnail", admin.UploadThumbnail)
				r.Post(RouteUpload+"/projects/{id}/media", admin.UploadMedia)
			})
		})
	})

	return r
}
