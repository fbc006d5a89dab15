// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"
)

// Project is a row of the projects table.
type Project struct {
	ID            string
	Slug          string
	TitleEn       string
	TitleDe       string
	SubtitleEn    sql.NullString
	SubtitleDe    sql.NullString
	DescriptionEn sql.NullString
	DescriptionDe sql.NullString
	Role          sql.NullString
	Client        sql.NullString
	Year          sql.NullInt64
	Category      sql.NullString
	ThumbnailPath sql.NullString
	Position      int64
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProjectMedium is a row of the project_media table.
type ProjectMedium struct {
	ID        string
	ProjectID string
	Position  int64
	Type      string
	FilePath  string
	AltText   sql.NullString
	CreatedAt time.Time
}

// Event is a row of the events table.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}
