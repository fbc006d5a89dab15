// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/olegiv/studio-go/internal/i18n"
	"github.com/olegiv/studio-go/internal/mailer"
	"github.com/olegiv/studio-go/internal/service"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	contact *service.Contact
	logger  *slog.Logger
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(c *service.Contact, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contact: c, logger: logger}
}

// Submit handles POST /api/contact. JSON and form bodies are accepted.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg service.ContactMessage
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if !decodeJSON(w, r, &msg) {
			return
		}
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := r.ParseForm(); err != nil {
			writeError(w, r, http.StatusBadRequest, "missing_fields", "error.missing_fields", nil)
			return
		}
		msg = service.ContactMessage{
			Name:    r.PostFormValue("name"),
			Email:   r.PostFormValue("email"),
			Message: r.PostFormValue("message"),
		}
	}

	err := h.contact.Send(r.Context(), msg)
	if err != nil {
		if _, ok := service.ValidationErrors(err); ok || errors.Is(err, mailer.ErrNotConfigured) {
			writeServiceError(w, r, h.logger, err)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "mail_failed", "error.mail_failed", nil)
		return
	}

	writeSuccess(w, map[string]any{
		"success": true,
		"message": i18n.T(requestLang(r), "contact.sent"),
	}, nil)
}
