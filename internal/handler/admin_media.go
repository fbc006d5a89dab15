// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/service"
)

// AdminMedia is a medium with its public URL.
type AdminMedia struct {
	model.Media
	URL string `json:"url"`
}

func adminMediaList(media []model.Media) []AdminMedia {
	out := make([]AdminMedia, 0, len(media))
	for _, m := range media {
		out = append(out, AdminMedia{Media: m, URL: m.URL()})
	}
	return out
}

// ListMedia handles GET /api/admin/projects/{id}/media.
func (h *AdminHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	if _, err := h.portfolio.Project(r.Context(), projectID); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	media, err := h.portfolio.Media(r.Context(), projectID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, adminMediaList(media), ListMeta{Total: len(media)})
}

// UploadMedia handles POST /api/admin/upload/projects/{id}/media with the
// file in "file" and an optional "alt_text".
func (h *AdminHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxMediaSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeUploadError(w, r, h.logger, err)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeUploadError(w, r, h.logger, err)
		return
	}
	defer func() { _ = file.Close() }()

	m, err := h.portfolio.UploadMedia(r.Context(), chi.URLParam(r, "id"), header.Filename, file, r.FormValue("alt_text"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeCreated(w, AdminMedia{Media: m, URL: m.URL()})
}

// UpdateMediaRequest is the body of PATCH /api/admin/media/{id}.
type UpdateMediaRequest struct {
	AltText string `json:"alt_text"`
}

// UpdateMedia handles PATCH /api/admin/media/{id}.
func (h *AdminHandler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var req UpdateMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.portfolio.UpdateAltText(r.Context(), chi.URLParam(r, "id"), req.AltText)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, AdminMedia{Media: m, URL: m.URL()}, nil)
}

// DeleteMedia handles DELETE /api/admin/media/{id}.
func (h *AdminHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolio.DeleteMedia(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MoveMediaRequest names the project a medium moves to.
type MoveMediaRequest struct {
	ProjectID string `json:"project_id"`
}

// MoveMedia handles POST /api/admin/media/{id}/move. The medium is appended
// to the end of the target project.
func (h *AdminHandler) MoveMedia(w http.ResponseWriter, r *http.Request) {
	var req MoveMediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProjectID == "" {
		writeError(w, r, http.StatusBadRequest, "validation_error", "error.validation",
			map[string]string{"project_id": "cannot be blank"})
		return
	}
	m, err := h.portfolio.MoveMedia(r.Context(), chi.URLParam(r, "id"), req.ProjectID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, AdminMedia{Media: m, URL: m.URL()}, nil)
}

// ReorderMedia handles POST /api/admin/projects/{id}/media/reorder.
func (h *AdminHandler) ReorderMedia(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	batch, err := h.portfolio.ReorderMedia(r.Context(), chi.URLParam(r, "id"), req.SourceID, req.TargetID)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, adminMediaList(batch.Order()), reorderMeta(batch))
}
