// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

var (
	dataSources    = []string{"remote", "static"}
	mailTransports = []string{"resend", "smtp", "log"}
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"STUDIO_DB_PATH" envDefault:"./data/studio.db"`
	SessionSecret string `env:"STUDIO_SESSION_SECRET,required"`
	ServerHost    string `env:"STUDIO_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"STUDIO_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"STUDIO_ENV" envDefault:"development"`
	LogLevel      string `env:"STUDIO_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"STUDIO_UPLOADS_DIR" envDefault:"./uploads"`

	// Content
	DataSource         string `env:"STUDIO_DATA_SOURCE" envDefault:"remote"` // remote or static
	DoSeed             bool   `env:"STUDIO_SEED" envDefault:"false"`         // Seed an empty store with the sample portfolio
	ReorderConcurrency int    `env:"STUDIO_REORDER_CONCURRENCY" envDefault:"8"`

	// Preview instances wipe the database and uploads once per interval and reseed.
	PreviewReset    bool          `env:"STUDIO_PREVIEW_RESET" envDefault:"false"`
	PreviewInterval time.Duration `env:"STUDIO_PREVIEW_INTERVAL" envDefault:"24h"`

	// Locale detection
	GeoHeader   string `env:"STUDIO_GEO_HEADER" envDefault:"X-Vercel-IP-Country"`
	GeoIPDBPath string `env:"STUDIO_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Cache configuration
	RedisURL         string        `env:"STUDIO_REDIS_URL"` // Optional Redis URL for the listing cache
	CachePrefix      string        `env:"STUDIO_CACHE_PREFIX" envDefault:"studio:"`
	CacheTTL         time.Duration `env:"STUDIO_CACHE_TTL" envDefault:"10m"`
	CacheFailTTL     time.Duration `env:"STUDIO_CACHE_FAIL_TTL" envDefault:"5s"` // Listing lifetime after a partly failed reorder
	CacheRefreshSpec string        `env:"STUDIO_CACHE_REFRESH" envDefault:"@every 15m"`

	// Admin
	AdminPasswordHash string `env:"STUDIO_ADMIN_PASSWORD_HASH"` // argon2id encoded hash

	// Mail
	MailTransport string `env:"STUDIO_MAIL_TRANSPORT" envDefault:"resend"`
	ResendAPIKey  string `env:"RESEND_API_KEY"`
	SMTPHost      string `env:"STUDIO_SMTP_HOST"`
	SMTPPort      int    `env:"STUDIO_SMTP_PORT" envDefault:"587"`
	SMTPUser      string `env:"STUDIO_SMTP_USER"`
	SMTPPassword  string `env:"STUDIO_SMTP_PASSWORD"`
	MailFrom      string `env:"STUDIO_MAIL_FROM" envDefault:"Contact Form <onboarding@resend.dev>"`
	MailTo        string `env:"STUDIO_MAIL_TO"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// AdminEnabled returns true if an admin password hash is configured.
func (c Config) AdminEnabled() bool {
	return c.AdminPasswordHash != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("STUDIO_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	if slices.Contains(knownWeakSecrets, cfg.SessionSecret) {
		return nil, fmt.Errorf("STUDIO_SESSION_SECRET is a known default value and must not be used; " +
			"generate a secure secret with: openssl rand -base64 32")
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("STUDIO_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if !slices.Contains(dataSources, cfg.DataSource) {
		return nil, fmt.Errorf("STUDIO_DATA_SOURCE must be one of %s, got %q",
			strings.Join(dataSources, ", "), cfg.DataSource)
	}
	if !slices.Contains(mailTransports, cfg.MailTransport) {
		return nil, fmt.Errorf("STUDIO_MAIL_TRANSPORT must be one of %s, got %q",
			strings.Join(mailTransports, ", "), cfg.MailTransport)
	}
	if cfg.ReorderConcurrency < 1 {
		return nil, fmt.Errorf("STUDIO_REORDER_CONCURRENCY must be at least 1, got %d", cfg.ReorderConcurrency)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
