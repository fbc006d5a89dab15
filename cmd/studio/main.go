// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/studio-go/internal/auth"
	"github.com/olegiv/studio-go/internal/cache"
	"github.com/olegiv/studio-go/internal/config"
	"github.com/olegiv/studio-go/internal/content"
	"github.com/olegiv/studio-go/internal/demo"
	"github.com/olegiv/studio-go/internal/geoip"
	"github.com/olegiv/studio-go/internal/handler"
	"github.com/olegiv/studio-go/internal/i18n"
	"github.com/olegiv/studio-go/internal/imaging"
	"github.com/olegiv/studio-go/internal/logging"
	"github.com/olegiv/studio-go/internal/mailer"
	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/render"
	"github.com/olegiv/studio-go/internal/scheduler"
	"github.com/olegiv/studio-go/internal/service"
	"github.com/olegiv/studio-go/internal/session"
	"github.com/olegiv/studio-go/internal/storage"
	"github.com/olegiv/studio-go/internal/store"
	"github.com/olegiv/studio-go/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// eventRetention is how long event log entries are kept.
const eventRetention = 30 * 24 * time.Hour

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	hashPassword := flag.String("hash-password", "", "Print the argon2id hash of a password for STUDIO_ADMIN_PASSWORD_HASH and exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "studio - design studio portfolio server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SESSION_SECRET       Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DB_PATH              SQLite database path (default: ./data/studio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_DATA_SOURCE          Content source: remote|static (default: remote)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_ADMIN_PASSWORD_HASH  argon2id hash enabling the admin API\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_REDIS_URL            Redis URL for the listing cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_GEOIP_DB_PATH        GeoLite2-Country database (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  STUDIO_PREVIEW_RESET        Wipe and reseed the preview instance daily (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESEND_API_KEY              Resend API key for the contact form\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("studio %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if *hashPassword != "" {
		hash, err := auth.HashPassword(*hashPassword)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "hashing password: %v\n", err)
			os.Exit(1)
		}
		_, _ = fmt.Println(hash)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := parseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	seed := cfg.DoSeed
	if cfg.PreviewReset {
		preview := &demo.Preview{
			DBPath:     cfg.DBPath,
			UploadsDir: cfg.UploadsDir,
			Interval:   cfg.PreviewInterval,
			Logger:     logger,
		}
		if _, err := preview.ResetIfDue(); err != nil {
			return fmt.Errorf("resetting preview: %w", err)
		}
		seed = true
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warnings and errors also go to the event log table from here on.
	logger = slog.New(logging.NewEventLogHandler(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}), db))
	slog.SetDefault(logger)

	ctx := context.Background()

	src, err := openSource(ctx, cfg.DataSource, seed, db, logger)
	if err != nil {
		return err
	}

	listingCache, backend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	}, logger)
	defer func() { _ = listingCache.Close() }()

	bucket, err := storage.NewBucket(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("opening uploads: %w", err)
	}

	portfolio := service.NewPortfolio(src, service.Options{
		Logger:      logger,
		Cache:       listingCache,
		ListingTTL:  cfg.CacheTTL,
		FailTTL:     cfg.CacheFailTTL,
		Concurrency: cfg.ReorderConcurrency,
		Bucket:      bucket,
		Thumbnailer: imaging.NewThumbnailer(imaging.DefaultThumbnail),
	})
	slog.Info("portfolio ready", "source", src.Kind(), "cache", backend)

	mail, err := mailer.New(mailer.Config{
		Transport:    cfg.MailTransport,
		ResendAPIKey: cfg.ResendAPIKey,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUser:     cfg.SMTPUser,
		SMTPPassword: cfg.SMTPPassword,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing mailer: %w", err)
	}
	contact := service.NewContact(mail, cfg.MailFrom, cfg.MailTo, logger)

	localeCfg := middleware.LocaleConfig{
		GeoHeader: cfg.GeoHeader,
		Secure:    !cfg.IsDevelopment(),
	}
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Open(cfg.GeoIPDBPath); err != nil {
			slog.Warn("geoip disabled", "path", cfg.GeoIPDBPath, "error", err)
		} else {
			localeCfg.GeoIP = geo
			slog.Info("geoip enabled", "path", cfg.GeoIPDBPath)
		}
	}
	defer func() { _ = geo.Close() }()

	admin, err := auth.NewAdmin(cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("loading admin password: %w", err)
	}
	if !admin.Enabled() {
		slog.Warn("admin API disabled, STUDIO_ADMIN_PASSWORD_HASH is not set")
	}
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	sched := scheduler.New(logger)
	if err := addJobs(sched, cfg, portfolio, geo, loginProtection, store.New(db)); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	router := handler.NewRouter(handler.Deps{
		Logger:          logger,
		DB:              db,
		Portfolio:       portfolio,
		Contact:         contact,
		Markdown:        render.NewMarkdown(),
		Sessions:        session.New(db, cfg.IsDevelopment()),
		Admin:           admin,
		LoginProtection: loginProtection,
		ContactLimiter:  middleware.NewRateLimiter("contact", 0.1, 3),
		Scheduler:       sched,
		Bucket:          bucket,
		Locale:          localeCfg,
		Version:         versionInfo,
		CSRFKey:         []byte(cfg.SessionSecret),
		IsDevelopment:   cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       handler.DefaultUploadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      handler.DefaultUploadTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Position updates outlive their requests; let them finish before the
	// database closes.
	if err := portfolio.Drain(shutdownCtx); err != nil {
		slog.Warn("reorder updates still running at shutdown", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// openSource returns the configured content source. The remote source is
// seeded from the bundled sample portfolio when requested and empty.
func openSource(ctx context.Context, kind string, seed bool, db *sql.DB, logger *slog.Logger) (content.Source, error) {
	sample, err := content.NewStatic()
	if err != nil {
		return nil, fmt.Errorf("loading sample portfolio: %w", err)
	}
	if kind == content.KindStatic {
		return sample, nil
	}

	remote := content.NewRemote(db)
	if seed {
		n, err := content.Seed(ctx, remote, sample, logger)
		if err != nil {
			return nil, fmt.Errorf("seeding content: %w", err)
		}
		if n > 0 {
			slog.Info("seeded sample portfolio", "projects", n)
		}
	}
	return remote, nil
}

type jobSpec struct {
	name, description, schedule string
	fn                          scheduler.JobFunc
}

func addJobs(sched *scheduler.Scheduler, cfg *config.Config, portfolio *service.Portfolio,
	geo *geoip.Lookup, lp *middleware.LoginProtection, queries *store.Queries) error {
	jobs := []jobSpec{
		{"refresh-listings", "Reload cached project listings", cfg.CacheRefreshSpec, portfolio.Refresh},
		{"login-cleanup", "Forget expired login attempts", "@every 10m", func(context.Context) error {
			lp.Cleanup()
			return nil
		}},
		{"prune-events", "Delete event log entries older than 30 days", "30 4 * * *", func(ctx context.Context) error {
			n, err := queries.DeleteEventsBefore(ctx, time.Now().Add(-eventRetention))
			if err != nil {
				return err
			}
			slog.Debug("pruned event log", "deleted", n)
			return nil
		}},
	}
	if geo.Enabled() {
		jobs = append(jobs, jobSpec{"geoip-reload", "Reload the GeoIP database from disk", "0 3 * * *", func(context.Context) error {
			return geo.Reload()
		}})
	}

	for _, j := range jobs {
		if err := sched.Add(j.name, j.description, j.schedule, j.fn); err != nil {
			return fmt.Errorf("scheduling %s: %w", j.name, err)
		}
	}
	return nil
}
