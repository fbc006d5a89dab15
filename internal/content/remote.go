// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/ordering"
	"github.com/olegiv/studio-go/internal/store"
)

// Remote is the SQLite-backed data source.
type Remote struct {
	db      *sql.DB
	queries *store.Queries
	now     func() time.Time
}

// NewRemote creates a Remote over an open, migrated database.
func NewRemote(db *sql.DB) *Remote {
	return &Remote{
		db:      db,
		queries: store.New(db),
		now:     time.Now,
	}
}

// Kind implements Source.
func (r *Remote) Kind() string { return KindRemote }

// Ping checks the database connection.
func (r *Remote) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ListProjects returns projects ordered by position.
func (r *Remote) ListProjects(ctx context.Context, includeUnpublished bool) ([]model.Project, error) {
	var (
		rows []store.Project
		err  error
	)
	if includeUnpublished {
		rows, err = r.queries.ListProjects(ctx)
	} else {
		rows, err = r.queries.ListPublishedProjects(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projects := make([]model.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, projectFromRow(row))
	}
	return projects, nil
}

// GetProject returns a project by id.
func (r *Remote) GetProject(ctx context.Context, id string) (model.Project, error) {
	row, err := r.queries.GetProjectByID(ctx, id)
	if err != nil {
		return model.Project{}, notFound(err)
	}
	return projectFromRow(row), nil
}

// GetProjectBySlug returns a project by slug.
func (r *Remote) GetProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	row, err := r.queries.GetProjectBySlug(ctx, slug)
	if err != nil {
		return model.Project{}, notFound(err)
	}
	return projectFromRow(row), nil
}

// CountProjects returns the number of stored projects.
func (r *Remote) CountProjects(ctx context.Context) (int, error) {
	n, err := r.queries.CountProjects(ctx)
	return int(n), err
}

// ListMedia returns the media of a project ordered by position.
func (r *Remote) ListMedia(ctx context.Context, projectID string) ([]model.Media, error) {
	rows, err := r.queries.ListProjectMedia(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	media := make([]model.Media, 0, len(rows))
	for _, row := range rows {
		media = append(media, mediaFromRow(row))
	}
	return media, nil
}

// MediaByProject returns the media of several projects keyed by project id.
func (r *Remote) MediaByProject(ctx context.Context, projectIDs []string) (map[string][]model.Media, error) {
	rows, err := r.queries.ListMediaByProjectIDs(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("listing media: %w", err)
	}
	out := make(map[string][]model.Media, len(projectIDs))
	for _, row := range rows {
		out[row.ProjectID] = append(out[row.ProjectID], mediaFromRow(row))
	}
	return out, nil
}

// GetMedia returns a medium by id.
func (r *Remote) GetMedia(ctx context.Context, id string) (model.Media, error) {
	row, err := r.queries.GetProjectMedium(ctx, id)
	if err != nil {
		return model.Media{}, notFound(err)
	}
	return mediaFromRow(row), nil
}

// CreateProject inserts p at the end of the projects scope. An empty id is
// replaced by a new UUID.
func (r *Remote) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	last, err := r.queries.GetMaxProjectPosition(ctx)
	if err != nil {
		return model.Project{}, fmt.Errorf("reading max position: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	now := r.now()
	row, err := r.queries.CreateProject(ctx, store.CreateProjectParams{
		ID:            p.ID,
		Slug:          p.Slug,
		TitleEn:       p.TitleEn,
		TitleDe:       p.TitleDe,
		SubtitleEn:    nullString(p.SubtitleEn),
		SubtitleDe:    nullString(p.SubtitleDe),
		DescriptionEn: nullString(p.DescriptionEn),
		DescriptionDe: nullString(p.DescriptionDe),
		Role:          nullString(p.Role),
		Client:        nullString(p.Client),
		Year:          nullInt(p.Year),
		Category:      nullString(p.Category),
		ThumbnailPath: nullString(p.ThumbnailPath),
		Position:      int64(ordering.NextPosition(positions(last))),
		IsPublished:   p.IsPublished,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return model.Project{}, fmt.Errorf("creating project: %w", err)
	}
	return projectFromRow(row), nil
}

// UpdateProject rewrites the editable fields of p.
func (r *Remote) UpdateProject(ctx context.Context, p model.Project) (model.Project, error) {
	row, err := r.queries.UpdateProject(ctx, store.UpdateProjectParams{
		Slug:          p.Slug,
		TitleEn:       p.TitleEn,
		TitleDe:       p.TitleDe,
		SubtitleEn:    nullString(p.SubtitleEn),
		SubtitleDe:    nullString(p.SubtitleDe),
		DescriptionEn: nullString(p.DescriptionEn),
		DescriptionDe: nullString(p.DescriptionDe),
		Role:          nullString(p.Role),
		Client:        nullString(p.Client),
		Year:          nullInt(p.Year),
		Category:      nullString(p.Category),
		IsPublished:   p.IsPublished,
		UpdatedAt:     r.now(),
		ID:            p.ID,
	})
	if err != nil {
		return model.Project{}, notFound(err)
	}
	return projectFromRow(row), nil
}

// SetProjectThumbnail sets or clears (empty path) the thumbnail.
func (r *Remote) SetProjectThumbnail(ctx context.Context, id, path string) error {
	return r.queries.UpdateProjectThumbnail(ctx, store.UpdateProjectThumbnailParams{
		ThumbnailPath: nullString(path),
		UpdatedAt:     r.now(),
		ID:            id,
	})
}

// DeleteProject removes a project and, by cascade, its media rows.
// Sibling positions are left as they are.
func (r *Remote) DeleteProject(ctx context.Context, id string) error {
	return r.queries.DeleteProject(ctx, id)
}

// UpdateProjectPosition persists one project position.
func (r *Remote) UpdateProjectPosition(ctx context.Context, id string, position int) error {
	n, err := r.queries.UpdateProjectPosition(ctx, store.UpdateProjectPositionParams{
		Position:  int64(position),
		UpdatedAt: r.now(),
		ID:        id,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateMedia inserts m at the end of its project's media.
func (r *Remote) CreateMedia(ctx context.Context, m model.Media) (model.Media, error) {
	last, err := r.queries.GetMaxMediaPosition(ctx, m.ProjectID)
	if err != nil {
		return model.Media{}, fmt.Errorf("reading max media position: %w", err)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Type == "" {
		m.Type = model.DetectMediaType(m.FilePath)
	}

	row, err := r.queries.CreateProjectMedium(ctx, store.CreateProjectMediumParams{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Position:  int64(ordering.NextPosition(positions(last))),
		Type:      string(m.Type),
		FilePath:  m.FilePath,
		AltText:   nullString(m.AltText),
		CreatedAt: r.now(),
	})
	if err != nil {
		return model.Media{}, fmt.Errorf("creating media: %w", err)
	}
	return mediaFromRow(row), nil
}

// UpdateMediaAltText sets the alt text of a medium.
func (r *Remote) UpdateMediaAltText(ctx context.Context, id, altText string) error {
	n, err := r.queries.UpdateMediumAltText(ctx, id, nullString(altText))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MoveMedia reassigns a medium to projectID, appended after its last medium.
func (r *Remote) MoveMedia(ctx context.Context, id, projectID string) (model.Media, error) {
	if _, err := r.queries.GetProjectByID(ctx, projectID); err != nil {
		return model.Media{}, notFound(err)
	}
	last, err := r.queries.GetMaxMediaPosition(ctx, projectID)
	if err != nil {
		return model.Media{}, fmt.Errorf("reading max media position: %w", err)
	}

	n, err := r.queries.MoveMediumToProject(ctx, store.MoveMediumToProjectParams{
		ProjectID: projectID,
		Position:  int64(ordering.NextPosition(positions(last))),
		ID:        id,
	})
	if err != nil {
		return model.Media{}, fmt.Errorf("moving media: %w", err)
	}
	if n == 0 {
		return model.Media{}, ErrNotFound
	}
	return r.GetMedia(ctx, id)
}

// DeleteMedia removes a medium row.
func (r *Remote) DeleteMedia(ctx context.Context, id string) error {
	return r.queries.DeleteProjectMedium(ctx, id)
}

// UpdateMediaPosition persists one media position within projectID.
func (r *Remote) UpdateMediaPosition(ctx context.Context, projectID, id string, position int) error {
	n, err := r.queries.UpdateMediumPosition(ctx, store.UpdateMediumPositionParams{
		Position:  int64(position),
		ID:        id,
		ProjectID: projectID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func positions(last sql.NullInt64) []int {
	if !last.Valid {
		return nil
	}
	return []int{int(last.Int64)}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func projectFromRow(row store.Project) model.Project {
	return model.Project{
		ID:            row.ID,
		Slug:          row.Slug,
		TitleEn:       row.TitleEn,
		TitleDe:       row.TitleDe,
		SubtitleEn:    row.SubtitleEn.String,
		SubtitleDe:    row.SubtitleDe.String,
		DescriptionEn: row.DescriptionEn.String,
		DescriptionDe: row.DescriptionDe.String,
		Role:          row.Role.String,
		Client:        row.Client.String,
		Year:          int(row.Year.Int64),
		Category:      row.Category.String,
		ThumbnailPath: row.ThumbnailPath.String,
		Position:      int(row.Position),
		IsPublished:   row.IsPublished,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func mediaFromRow(row store.ProjectMedium) model.Media {
	return model.Media{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Position:  int(row.Position),
		Type:      model.MediaType(row.Type),
		FilePath:  row.FilePath,
		AltText:   row.AltText.String,
		CreatedAt: row.CreatedAt,
	}
}

var _ Source = (*Remote)(nil)
