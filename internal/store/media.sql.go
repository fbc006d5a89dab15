// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const mediumColumns = `id, project_id, position, type, file_path, alt_text, created_at`

func scanMedium(row rowScanner) (ProjectMedium, error) {
	var m ProjectMedium
	err := row.Scan(
		&m.ID,
		&m.ProjectID,
		&m.Position,
		&m.Type,
		&m.FilePath,
		&m.AltText,
		&m.CreatedAt,
	)
	return m, err
}

func (q *Queries) listMedia(ctx context.Context, query string, args ...any) ([]ProjectMedium, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []ProjectMedium
	for rows.Next() {
		m, err := scanMedium(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProjectMedia = `SELECT ` + mediumColumns + ` FROM project_media WHERE project_id = ? ORDER BY position ASC, created_at ASC`

// ListProjectMedia returns the media of one project ordered by position.
func (q *Queries) ListProjectMedia(ctx context.Context, projectID string) ([]ProjectMedium, error) {
	return q.listMedia(ctx, listProjectMedia, projectID)
}

const listMediaByProjectIDs = `SELECT ` + mediumColumns + ` FROM project_media WHERE project_id IN (/*SLICE:ids*/?) ORDER BY project_id, position ASC, created_at ASC`

// ListMediaByProjectIDs returns the media of several projects, grouped by
// project and ordered by position within each group.
func (q *Queries) ListMediaByProjectIDs(ctx context.Context, ids []string) ([]ProjectMedium, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := strings.Replace(listMediaByProjectIDs, "/*SLICE:ids*/?", strings.Repeat(",?", len(ids))[1:], 1)
	return q.listMedia(ctx, query, args...)
}

const getProjectMedium = `SELECT ` + mediumColumns + ` FROM project_media WHERE id = ?`

// GetProjectMedium returns one media row.
func (q *Queries) GetProjectMedium(ctx context.Context, id string) (ProjectMedium, error) {
	return scanMedium(q.db.QueryRowContext(ctx, getProjectMedium, id))
}

const getMaxMediaPosition = `SELECT MAX(position) FROM project_media WHERE project_id = ?`

// GetMaxMediaPosition returns the highest media position of a project, NULL when empty.
func (q *Queries) GetMaxMediaPosition(ctx context.Context, projectID string) (sql.NullInt64, error) {
	var last sql.NullInt64
	err := q.db.QueryRowContext(ctx, getMaxMediaPosition, projectID).Scan(&last)
	return last, err
}

const createProjectMedium = `INSERT INTO project_media (id, project_id, position, type, file_path, alt_text, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + mediumColumns

// CreateProjectMediumParams holds the columns of a new media row.
type CreateProjectMediumParams struct {
	ID        string
	ProjectID string
	Position  int64
	Type      string
	FilePath  string
	AltText   sql.NullString
	CreatedAt time.Time
}

// CreateProjectMedium inserts a media row.
func (q *Queries) CreateProjectMedium(ctx context.Context, arg CreateProjectMediumParams) (ProjectMedium, error) {
	row := q.db.QueryRowContext(ctx, createProjectMedium,
		arg.ID,
		arg.ProjectID,
		arg.Position,
		arg.Type,
		arg.FilePath,
		arg.AltText,
		arg.CreatedAt,
	)
	return scanMedium(row)
}

const updateMediumAltText = `UPDATE project_media SET alt_text = ? WHERE id = ?`

// UpdateMediumAltText sets the alt text of a media row and returns the
// number of rows changed.
func (q *Queries) UpdateMediumAltText(ctx context.Context, id string, altText sql.NullString) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateMediumAltText, altText, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateMediumPosition = `UPDATE project_media SET position = ? WHERE id = ? AND project_id = ?`

// UpdateMediumPositionParams moves one media row within its project.
type UpdateMediumPositionParams struct {
	Position  int64
	ID        string
	ProjectID string
}

// UpdateMediumPosition sets the position of a media row. Rows of other
// projects are never touched.
func (q *Queries) UpdateMediumPosition(ctx context.Context, arg UpdateMediumPositionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateMediumPosition, arg.Position, arg.ID, arg.ProjectID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const moveMediumToProject = `UPDATE project_media SET project_id = ?, position = ? WHERE id = ?`

// MoveMediumToProjectParams reassigns a media row to another project.
type MoveMediumToProjectParams struct {
	ProjectID string
	Position  int64
	ID        string
}

// MoveMediumToProject reassigns a media row and sets its position in the new project.
func (q *Queries) MoveMediumToProject(ctx context.Context, arg MoveMediumToProjectParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, moveMediumToProject, arg.ProjectID, arg.Position, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteProjectMedium = `DELETE FROM project_media WHERE id = ?`

// DeleteProjectMedium removes one media row.
func (q *Queries) DeleteProjectMedium(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteProjectMedium, id)
	return err
}
