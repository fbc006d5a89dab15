// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/ordering"
	"github.com/olegiv/studio-go/internal/scheduler"
	"github.com/olegiv/studio-go/internal/service"
	"github.com/olegiv/studio-go/internal/store"
)

// multipartMemory is the part of an upload kept in memory; the rest spills
// to temp files.
const multipartMemory = 32 << 20

// AdminHandler serves the admin API for projects, media, events and jobs.
type AdminHandler struct {
	portfolio *service.Portfolio
	queries   *store.Queries
	scheduler *scheduler.Scheduler
	logger    *slog.Logger
}

// NewAdminHandler creates a new AdminHandler. queries and sched may be nil,
// which disables the events and jobs endpoints.
func NewAdminHandler(p *service.Portfolio, queries *store.Queries, sched *scheduler.Scheduler, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{portfolio: p, queries: queries, scheduler: sched, logger: logger}
}

// AdminProject is a project with its resolved thumbnail URL.
type AdminProject struct {
	model.Project
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

func adminProject(p model.Project) AdminProject {
	return AdminProject{Project: p, ThumbnailURL: p.ThumbnailURL()}
}

func adminProjects(projects []model.Project) []AdminProject {
	out := make([]AdminProject, 0, len(projects))
	for _, p := range projects {
		out = append(out, adminProject(p))
	}
	return out
}

// ReorderRequest moves SourceID to the slot of TargetID.
type ReorderRequest struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// ReorderMeta reports whether the order changed and how many position
// writes were still running when the response was sent.
type ReorderMeta struct {
	Changed bool `json:"changed"`
	Pending int  `json:"pending"`
}

func reorderMeta[T ordering.Item](b *ordering.Batch[T]) ReorderMeta {
	return ReorderMeta{Changed: b.Changed(), Pending: b.Pending()}
}

// ListProjects handles GET /api/admin/projects.
func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.portfolio.AdminProjects(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, adminProjects(projects), ListMeta{Total: len(projects)})
}

// GetProject handles GET /api/admin/projects/{id}.
func (h *AdminHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.portfolio.Project(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, adminProject(p), nil)
}

// CreateProject handles POST /api/admin/projects.
func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.portfolio.CreateProject(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeCreated(w, adminProject(p))
}

// UpdateProject handles PATCH /api/admin/projects/{id}. Omitted fields are
// left unchanged.
func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.portfolio.UpdateProject(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, adminProject(p), nil)
}

// DeleteProject handles DELETE /api/admin/projects/{id}.
func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolio.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadThumbnail handles POST /api/admin/upload/projects/{id}/thumbnail
// with the image in the multipart field "file".
func (h *AdminHandler) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxThumbnailSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeUploadError(w, r, h.logger, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeUploadError(w, r, h.logger, err)
		return
	}
	defer func() { _ = file.Close() }()

	p, err := h.portfolio.UploadThumbnail(r.Context(), chi.URLParam(r, "id"), file)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, adminProject(p), nil)
}

// ReorderProjects handles POST /api/admin/projects/reorder. The new order is
// returned at once; positions keep persisting after the response.
func (h *AdminHandler) ReorderProjects(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	batch, err := h.portfolio.ReorderProjects(r.Context(), req.SourceID, req.TargetID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, adminProjects(batch.Order()), reorderMeta(batch))
}

// multipartOverhead allows for boundaries and the other form fields.
const multipartOverhead = 1 << 20

// writeUploadError maps multipart parsing failures.
func writeUploadError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeServiceError(w, r, logger, tooLarge)
	case errors.Is(err, http.ErrMissingFile):
		writeError(w, r, http.StatusBadRequest, "validation_error", "error.validation",
			map[string]string{"file": "cannot be blank"})
	default:
		middleware.WriteError(w, http.StatusBadRequest, "invalid_upload", "Invalid multipart form", nil)
	}
}
