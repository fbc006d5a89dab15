// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/scheduler"
)

// ListJobs handles GET /api/admin/jobs.
func (h *AdminHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	if h.scheduler == nil {
		writeSuccess(w, []scheduler.JobInfo{}, ListMeta{})
		return
	}
	jobs := h.scheduler.List()
	writeSuccess(w, jobs, ListMeta{Total: len(jobs)})
}

// RunJob handles POST /api/admin/jobs/{name}/run and waits for the job.
func (h *AdminHandler) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.scheduler == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "error.not_found", nil)
		return
	}

	err := h.scheduler.Trigger(r.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "error.not_found", nil)
	case err != nil:
		middleware.WriteError(w, http.StatusInternalServerError, "job_failed", err.Error(), nil)
	default:
		writeSuccess(w, map[string]string{"job": name, "status": "completed"}, nil)
	}
}
