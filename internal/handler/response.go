// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the public site API and the
// admin API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/olegiv/studio-go/internal/content"
	"github.com/olegiv/studio-go/internal/i18n"
	"github.com/olegiv/studio-go/internal/mailer"
	"github.com/olegiv/studio-go/internal/middleware"
	"github.com/olegiv/studio-go/internal/service"
)

// maxJSONBody limits decoded request bodies.
const maxJSONBody = 1 << 20

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

// ListMeta describes a returned list.
type ListMeta struct {
	Total int `json:"total"`
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSuccess writes a 200 response wrapping data.
func writeSuccess(w http.ResponseWriter, data, meta any) {
	writeJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// writeCreated writes a 201 response wrapping data.
func writeCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Response{Data: data})
}

// writeError writes the error envelope with a message translated into the
// request locale.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int, code, key string, details map[string]string) {
	middleware.WriteError(w, statusCode, code, i18n.T(requestLang(r), key), details)
}

// writeServiceError maps errors from the service layer onto HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if errs, ok := service.ValidationErrors(err); ok {
		details := make(map[string]string, len(errs))
		for field, fe := range errs {
			details[field] = fe.Error()
		}
		writeError(w, r, http.StatusBadRequest, "validation_error", "error.validation", details)
		return
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, content.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", "error.not_found", nil)
	case errors.Is(err, content.ErrReadOnly):
		writeError(w, r, http.StatusConflict, "read_only", "error.read_only", nil)
	case errors.Is(err, mailer.ErrNotConfigured):
		writeError(w, r, http.StatusInternalServerError, "mail_not_configured", "error.mail_not_configured", nil)
	case errors.As(err, &tooLarge):
		middleware.WriteError(w, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), nil)
	default:
		logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeError(w, r, http.StatusInternalServerError, "internal_error", "error.internal", nil)
	}
}

// decodeJSON reads a JSON body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.WriteError(w, http.StatusRequestEntityTooLarge, "too_large", "Request body too large", nil)
			return false
		}
		middleware.WriteError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON body: "+err.Error(), nil)
		return false
	}
	return true
}

func requestLang(r *http.Request) string {
	return middleware.RequestLocale(r).String()
}
