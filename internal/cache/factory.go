// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL   string
	Prefix     string
	DefaultTTL time.Duration
}

// New creates a Redis cache when a URL is configured and reachable, and an
// in-memory cache otherwise. The returned string names the backend.
func New(cfg Config, logger *slog.Logger) (Cache, string) {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			logger.Info("display cache using redis", "url", MaskRedisURL(cfg.RedisURL))
			return rc, "redis"
		}
		logger.Warn("redis unavailable, falling back to memory cache",
			"url", MaskRedisURL(cfg.RedisURL), "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		CleanupInterval: time.Minute,
	}), "memory"
}

// MaskRedisURL hides the password of a Redis URL for logging.
func MaskRedisURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
