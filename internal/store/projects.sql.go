// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const projectColumns = `id, slug, title_en, title_de, subtitle_en, subtitle_de, description_en, description_de,
	role, client, year, category, thumbnail_path, position, is_published, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.TitleEn,
		&p.TitleDe,
		&p.SubtitleEn,
		&p.SubtitleDe,
		&p.DescriptionEn,
		&p.DescriptionDe,
		&p.Role,
		&p.Client,
		&p.Year,
		&p.Category,
		&p.ThumbnailPath,
		&p.Position,
		&p.IsPublished,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (q *Queries) listProjects(ctx context.Context, query string, args ...any) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listProjects = `SELECT ` + projectColumns + ` FROM projects ORDER BY position ASC, created_at ASC`

// ListProjects returns every project ordered by position.
func (q *Queries) ListProjects(ctx context.Context) ([]Project, error) {
	return q.listProjects(ctx, listProjects)
}

const listPublishedProjects = `SELECT ` + projectColumns + ` FROM projects WHERE is_published = 1 ORDER BY position ASC, created_at ASC`

// ListPublishedProjects returns published projects ordered by position.
func (q *Queries) ListPublishedProjects(ctx context.Context) ([]Project, error) {
	return q.listProjects(ctx, listPublishedProjects)
}

const getProjectByID = `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`

// GetProjectByID returns one project.
func (q *Queries) GetProjectByID(ctx context.Context, id string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProjectByID, id))
}

const getProjectBySlug = `SELECT ` + projectColumns + ` FROM projects WHERE slug = ?`

// GetProjectBySlug returns one project.
func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProjectBySlug, slug))
}

const countProjects = `SELECT COUNT(*) FROM projects`

// CountProjects returns the number of projects.
func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countProjects).Scan(&n)
	return n, err
}

const getMaxProjectPosition = `SELECT MAX(position) FROM projects`

// GetMaxProjectPosition returns the highest project position, NULL when empty.
func (q *Queries) GetMaxProjectPosition(ctx context.Context) (sql.NullInt64, error) {
	var last sql.NullInt64
	err := q.db.QueryRowContext(ctx, getMaxProjectPosition).Scan(&last)
	return last, err
}

const createProject = `INSERT INTO projects (
	id, slug, title_en, title_de, subtitle_en, subtitle_de, description_en, description_de,
	role, client, year, category, thumbnail_path, position, is_published, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + projectColumns

// CreateProjectParams holds the columns of a new project.
type CreateProjectParams struct {
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

// CreateProject inserts a project.
func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, createProject,
		arg.ID,
		arg.Slug,
		arg.TitleEn,
		arg.TitleDe,
		arg.SubtitleEn,
		arg.SubtitleDe,
		arg.DescriptionEn,
		arg.DescriptionDe,
		arg.Role,
		arg.Client,
		arg.Year,
		arg.Category,
		arg.ThumbnailPath,
		arg.Position,
		arg.IsPublished,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanProject(row)
}

const updateProject = `UPDATE projects SET
	slug = ?, title_en = ?, title_de = ?, subtitle_en = ?, subtitle_de = ?,
	description_en = ?, description_de = ?, role = ?, client = ?, year = ?,
	category = ?, is_published = ?, updated_at = ?
WHERE id = ?
RETURNING ` + projectColumns

// UpdateProjectParams holds the editable columns of a project.
type UpdateProjectParams struct {
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
	IsPublished   bool
	UpdatedAt     time.Time
	ID            string
}

// UpdateProject rewrites the editable columns of a project.
func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	row := q.db.QueryRowContext(ctx, updateProject,
		arg.Slug,
		arg.TitleEn,
		arg.TitleDe,
		arg.SubtitleEn,
		arg.SubtitleDe,
		arg.DescriptionEn,
		arg.DescriptionDe,
		arg.Role,
		arg.Client,
		arg.Year,
		arg.Category,
		arg.IsPublished,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanProject(row)
}

const updateProjectThumbnail = `UPDATE projects SET thumbnail_path = ?, updated_at = ? WHERE id = ?`

// UpdateProjectThumbnailParams sets or clears a project thumbnail.
type UpdateProjectThumbnailParams struct {
	ThumbnailPath sql.NullString
	UpdatedAt     time.Time
	ID            string
}

// UpdateProjectThumbnail sets the thumbnail path of a project.
func (q *Queries) UpdateProjectThumbnail(ctx context.Context, arg UpdateProjectThumbnailParams) error {
	_, err := q.db.ExecContext(ctx, updateProjectThumbnail, arg.ThumbnailPath, arg.UpdatedAt, arg.ID)
	return err
}

const updateProjectPosition = `UPDATE projects SET position = ?, updated_at = ? WHERE id = ?`

// UpdateProjectPositionParams moves one project.
type UpdateProjectPositionParams struct {
	Position  int64
	UpdatedAt time.Time
	ID        string
}

// UpdateProjectPosition sets the position of one project and returns the
// number of rows changed.
func (q *Queries) UpdateProjectPosition(ctx context.Context, arg UpdateProjectPositionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateProjectPosition, arg.Position, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteProject = `DELETE FROM projects WHERE id = ?`

// DeleteProject removes a project; its media rows cascade.
func (q *Queries) DeleteProject(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteProject, id)
	return err
}
