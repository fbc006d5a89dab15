// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/olegiv/studio-go/internal/content"
	"github.com/olegiv/studio-go/internal/version"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	source    content.Source
	version   version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, src content.Source, info version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		source:    src,
		version:   info,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status     string           `json:"status"`
	Timestamp  time.Time        `json:"timestamp"`
	Uptime     string           `json:"uptime"`
	Version    version.Info     `json:"version"`
	DataSource string           `json:"data_source"`
	Checks     map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /health. A failing check turns the response into 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{}
	if h.db != nil {
		checks["database"] = check(r.Context(), h.db.PingContext)
	} else {
		checks["database"] = Check{Status: "unhealthy", Message: "not configured"}
	}
	if p, ok := h.source.(pinger); ok {
		checks["content"] = check(r.Context(), p.Ping)
	}

	status := "healthy"
	for _, c := range checks {
		if c.Status != "healthy" {
			status = "degraded"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthStatus{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
		Version:    h.version,
		DataSource: h.source.Kind(),
		Checks:     checks,
	})
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

func check(ctx context.Context, ping func(context.Context) error) Check {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	if err := ping(ctx); err != nil {
		return Check{Status: "unhealthy", Message: err.Error()}
	}
	return Check{Status: "healthy", Latency: time.Since(start).String()}
}
