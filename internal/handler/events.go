// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/store"
)

// Event list limits
const (
	EventsDefaultLimit = 50
	EventsMaxLimit     = 500
)

// parseLimit reads ?limit, clamped to [1, EventsMaxLimit].
func parseLimit(s string) int64 {
	limit := int64(EventsDefaultLimit)
	if s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	return min(limit, EventsMaxLimit)
}

func eventsFromRows(rows []store.Event) []model.Event {
	out := make([]model.Event, 0, len(rows))
	for _, e := range rows {
		out = append(out, model.Event{
			ID:        e.ID,
			Level:     e.Level,
			Category:  e.Category,
			Message:   e.Message,
			Metadata:  e.Metadata,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}

// ListEvents handles GET /api/admin/events. Failed position writes and
// other warnings end up here. ?category narrows the list.
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	if h.queries == nil {
		writeError(w, r, http.StatusNotFound, "not_found", "error.not_found", nil)
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	var (
		rows []store.Event
		err  error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		rows, err = h.queries.ListEventsByCategory(r.Context(), category, limit)
	} else {
		rows, err = h.queries.ListEvents(r.Context(), limit)
	}
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, eventsFromRows(rows), ListMeta{Total: len(rows)})
}
