// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the portfolio operations on top of a content
// source: cached ordered listings, drag-and-drop reordering, uploads and
// the contact form.
package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/olegiv/studio-go/internal/cache"
	"github.com/olegiv/studio-go/internal/content"
	"github.com/olegiv/studio-go/internal/imaging"
	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/ordering"
	"github.com/olegiv/studio-go/internal/storage"
)

// Cache defaults
const (
	DefaultListingTTL = 10 * time.Minute
	DefaultFailTTL    = 5 * time.Second

	projectsScope = "all"
)

// Options configures a Portfolio.
type Options struct {
	Logger      *slog.Logger
	Cache       cache.Cache
	ListingTTL  time.Duration
	FailTTL     time.Duration
	Concurrency int
	Bucket      *storage.Bucket
	Thumbnailer *imaging.Thumbnailer
}

// Portfolio serves projects and their media from one content source.
type Portfolio struct {
	src         content.Source
	logger      *slog.Logger
	projects    *cache.Listing[model.Project]
	media       *cache.Listing[model.Media]
	order       *ordering.Reorderer[model.Project]
	bucket      *storage.Bucket
	thumbnailer *imaging.Thumbnailer
	failTTL     time.Duration
	concurrency int
	inFlight    sync.WaitGroup
}

// NewPortfolio wires a Portfolio. A nil cache gets an in-memory one.
func NewPortfolio(src content.Source, opts Options) *Portfolio {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := opts.Cache
	if c == nil {
		c = cache.NewMemoryCache(cache.MemoryCacheOptions{})
	}
	ttl := opts.ListingTTL
	if ttl <= 0 {
		ttl = DefaultListingTTL
	}
	failTTL := opts.FailTTL
	if failTTL <= 0 {
		failTTL = DefaultFailTTL
	}
	thumbnailer := opts.Thumbnailer
	if thumbnailer == nil {
		thumbnailer = imaging.NewThumbnailer(imaging.DefaultThumbnail)
	}

	p := &Portfolio{
		src:         src,
		logger:      logger,
		projects:    cache.NewListing[model.Project](c, "projects", ttl),
		media:       cache.NewListing[model.Media](c, "media", ttl),
		bucket:      opts.Bucket,
		thumbnailer: thumbnailer,
		failTTL:     failTTL,
		concurrency: opts.Concurrency,
	}

	p.order = ordering.NewReorderer[model.Project]("projects",
		ordering.PositionStoreFunc(src.UpdateProjectPosition),
		ordering.Options{Logger: logger, Concurrency: opts.Concurrency, InFlight: &p.inFlight})
	p.order.Apply = func(ctx context.Context, order []model.Project) {
		for i := range order {
			order[i].Position = i
		}
		if err := p.projects.Put(ctx, projectsScope, order); err != nil {
			p.logger.Warn("failed to cache project order", "error", err)
		}
	}
	p.order.OnDone = func(out ordering.Outcome) {
		if !out.OK() {
			_ = p.projects.Expire(context.Background(), projectsScope, p.failTTL)
		}
	}

	return p
}

// Source returns the underlying content source.
func (p *Portfolio) Source() content.Source { return p.src }

// ReadOnly reports whether the source rejects writes.
func (p *Portfolio) ReadOnly() bool { return p.src.Kind() == content.KindStatic }

// AdminProjects returns every project, published or not, in display order.
func (p *Portfolio) AdminProjects(ctx context.Context) ([]model.Project, error) {
	return p.projects.Load(ctx, projectsScope, func(ctx context.Context) ([]model.Project, error) {
		return p.src.ListProjects(ctx, true)
	})
}

// PublishedProjects returns the published projects in display order.
func (p *Portfolio) PublishedProjects(ctx context.Context) ([]model.Project, error) {
	all, err := p.AdminProjects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Project, 0, len(all))
	for _, pr := range all {
		if pr.IsPublished {
			out = append(out, pr)
		}
	}
	return out, nil
}

// ProjectBySlug returns a published project with its media. Unpublished
// projects are reported as not found.
func (p *Portfolio) ProjectBySlug(ctx context.Context, slug string) (model.Project, []model.Media, error) {
	pr, err := p.src.GetProjectBySlug(ctx, slug)
	if err != nil {
		return model.Project{}, nil, err
	}
	if !pr.IsPublished {
		return model.Project{}, nil, content.ErrNotFound
	}
	media, err := p.Media(ctx, pr.ID)
	if err != nil {
		return model.Project{}, nil, err
	}
	return pr, media, nil
}

// MediaByProject returns the media of several projects keyed by project
// id. Cached listings are used where present; the rest is read from the
// source in one call and cached per project.
func (p *Portfolio) MediaByProject(ctx context.Context, projectIDs []string) (map[string][]model.Media, error) {
	out := make(map[string][]model.Media, len(projectIDs))
	var missing []string
	for _, id := range projectIDs {
		if media, ok := p.media.Get(ctx, id); ok {
			out[id] = media
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := p.src.MediaByProject(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		media := loaded[id]
		out[id] = media
		if err := p.media.Put(ctx, id, media); err != nil {
			p.logger.Warn("failed to cache media listing", "project", id, "error", err)
		}
	}
	return out, nil
}

// Drain waits until every dispatched position update has finished, or
// until ctx is done.
func (p *Portfolio) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Project returns a project by id.
func (p *Portfolio) Project(ctx context.Context, id string) (model.Project, error) {
	return p.src.GetProject(ctx, id)
}

// Media returns the media of one project in display order.
func (p *Portfolio) Media(ctx context.Context, projectID string) ([]model.Media, error) {
	return p.media.Load(ctx, projectID, func(ctx context.Context) ([]model.Media, error) {
		return p.src.ListMedia(ctx, projectID)
	})
}

// CreateProject validates in and appends a new project. Projects are
// published unless in says otherwise; a missing slug is derived from the
// English title.
func (p *Portfolio) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	if p.ReadOnly() {
		return model.Project{}, content.ErrReadOnly
	}
	pr := model.Project{IsPublished: true}
	in.Apply(&pr)
	normalizeSlug(&pr)
	if err := validateProject(&pr); err != nil {
		return model.Project{}, err
	}

	created, err := p.src.CreateProject(ctx, pr)
	if err != nil {
		return model.Project{}, err
	}
	p.invalidateProjects(ctx)
	p.logger.Info("project created", "id", created.ID, "slug", created.Slug, "position", created.Position)
	return created, nil
}

// UpdateProject applies the set fields of in to project id.
func (p *Portfolio) UpdateProject(ctx context.Context, id string, in model.ProjectInput) (model.Project, error) {
	if p.ReadOnly() {
		return model.Project{}, content.ErrReadOnly
	}
	pr, err := p.src.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, err
	}
	in.Apply(&pr)
	normalizeSlug(&pr)
	if err := validateProject(&pr); err != nil {
		return model.Project{}, err
	}

	updated, err := p.src.UpdateProject(ctx, pr)
	if err != nil {
		return model.Project{}, err
	}
	p.invalidateProjects(ctx)
	return updated, nil
}

// DeleteProject deletes a project with its media rows, then removes its
// stored files. Positions of the remaining projects are left as they are.
func (p *Portfolio) DeleteProject(ctx context.Context, id string) error {
	if p.ReadOnly() {
		return content.ErrReadOnly
	}
	pr, err := p.src.GetProject(ctx, id)
	if err != nil {
		return err
	}
	media, err := p.src.ListMedia(ctx, id)
	if err != nil {
		return err
	}

	if err := p.src.DeleteProject(ctx, id); err != nil {
		return err
	}

	for _, m := range media {
		p.removeFile(m.FilePath)
	}
	p.removeFile(pr.ThumbnailPath)

	p.invalidateProjects(ctx)
	_ = p.media.Invalidate(ctx, id)
	p.logger.Info("project deleted", "id", id, "slug", pr.Slug, "media", len(media))
	return nil
}

// UploadThumbnail renders r as the project's thumbnail and replaces the
// previous one.
func (p *Portfolio) UploadThumbnail(ctx context.Context, id string, r io.Reader) (model.Project, error) {
	if p.ReadOnly() {
		return model.Project{}, content.ErrReadOnly
	}
	if p.bucket == nil {
		return model.Project{}, errors.New("uploads are not configured")
	}
	pr, err := p.src.GetProject(ctx, id)
	if err != nil {
		return model.Project{}, err
	}

	thumb, err := p.thumbnailer.Make(io.LimitReader(r, MaxThumbnailSize))
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return model.Project{}, fieldError("file", "validation_image", "must be a JPEG, PNG, GIF or WebP image")
		}
		return model.Project{}, err
	}

	name := p.bucket.ObjectName(path.Join("thumbnails", pr.Slug), "thumb."+thumb.Ext)
	if _, err := p.bucket.Put(name, bytes.NewReader(thumb.Data)); err != nil {
		return model.Project{}, fmt.Errorf("storing thumbnail: %w", err)
	}
	if err := p.src.SetProjectThumbnail(ctx, id, name); err != nil {
		p.removeFile(name)
		return model.Project{}, err
	}
	p.removeFile(pr.ThumbnailPath)
	p.invalidateProjects(ctx)

	pr.ThumbnailPath = name
	return pr, nil
}

// ReorderProjects moves sourceID to where targetID is. The returned batch
// carries the new order at once; positions persist in the background.
func (p *Portfolio) ReorderProjects(ctx context.Context, sourceID, targetID string) (*ordering.Batch[model.Project], error) {
	if p.ReadOnly() {
		return nil, content.ErrReadOnly
	}
	items, err := p.AdminProjects(ctx)
	if err != nil {
		return nil, err
	}
	return p.order.Reorder(ctx, items, sourceID, targetID), nil
}

// UploadMedia stores r and appends it to the project's media. The stored
// file is removed again when the row cannot be created.
func (p *Portfolio) UploadMedia(ctx context.Context, projectID, filename string, r io.Reader, altText string) (model.Media, error) {
	if p.ReadOnly() {
		return model.Media{}, content.ErrReadOnly
	}
	if p.bucket == nil {
		return model.Media{}, errors.New("uploads are not configured")
	}
	if err := validateMediaUpload(filename, altText); err != nil {
		return model.Media{}, err
	}
	pr, err := p.src.GetProject(ctx, projectID)
	if err != nil {
		return model.Media{}, err
	}

	name := p.bucket.ObjectName(pr.Slug, filename)
	if _, err := p.bucket.Put(name, io.LimitReader(r, MaxMediaSize)); err != nil {
		return model.Media{}, fmt.Errorf("storing media: %w", err)
	}

	m, err := p.src.CreateMedia(ctx, model.Media{
		ProjectID: projectID,
		Type:      model.DetectMediaType(filename),
		FilePath:  name,
		AltText:   altText,
	})
	if err != nil {
		p.removeFile(name)
		return model.Media{}, err
	}
	_ = p.media.Invalidate(ctx, projectID)
	p.logger.Info("media uploaded", "project", pr.Slug, "id", m.ID, "type", m.Type, "position", m.Position)
	return m, nil
}

// UpdateAltText sets the alt text of a medium.
func (p *Portfolio) UpdateAltText(ctx context.Context, id, altText string) (model.Media, error) {
	if p.ReadOnly() {
		return model.Media{}, content.ErrReadOnly
	}
	if err := validateAltText(altText); err != nil {
		return model.Media{}, err
	}
	m, err := p.src.GetMedia(ctx, id)
	if err != nil {
		return model.Media{}, err
	}
	if err := p.src.UpdateMediaAltText(ctx, id, altText); err != nil {
		return model.Media{}, err
	}
	_ = p.media.Invalidate(ctx, m.ProjectID)
	m.AltText = altText
	return m, nil
}

// DeleteMedia removes a medium. A file that cannot be removed is logged
// and the row is deleted anyway.
func (p *Portfolio) DeleteMedia(ctx context.Context, id string) error {
	if p.ReadOnly() {
		return content.ErrReadOnly
	}
	m, err := p.src.GetMedia(ctx, id)
	if err != nil {
		return err
	}
	p.removeFile(m.FilePath)
	if err := p.src.DeleteMedia(ctx, id); err != nil {
		return err
	}
	_ = p.media.Invalidate(ctx, m.ProjectID)
	return nil
}

// MoveMedia reassigns a medium to another project, at the end of its media.
func (p *Portfolio) MoveMedia(ctx context.Context, id, projectID string) (model.Media, error) {
	if p.ReadOnly() {
		return model.Media{}, content.ErrReadOnly
	}
	m, err := p.src.GetMedia(ctx, id)
	if err != nil {
		return model.Media{}, err
	}
	if m.ProjectID == projectID {
		return m, nil
	}
	moved, err := p.src.MoveMedia(ctx, id, projectID)
	if err != nil {
		return model.Media{}, err
	}
	_ = p.media.Invalidate(ctx, m.ProjectID)
	_ = p.media.Invalidate(ctx, projectID)
	p.logger.Info("media moved", "id", id, "from", m.ProjectID, "to", projectID, "position", moved.Position)
	return moved, nil
}

// ReorderMedia moves sourceID to where targetID is within one project's
// media. Only rows of that project are written.
func (p *Portfolio) ReorderMedia(ctx context.Context, projectID, sourceID, targetID string) (*ordering.Batch[model.Media], error) {
	if p.ReadOnly() {
		return nil, content.ErrReadOnly
	}
	items, err := p.Media(ctx, projectID)
	if err != nil {
		return nil, err
	}

	r := ordering.NewReorderer[model.Media]("media:"+projectID,
		ordering.PositionStoreFunc(func(ctx context.Context, id string, position int) error {
			return p.src.UpdateMediaPosition(ctx, projectID, id, position)
		}),
		ordering.Options{Logger: p.logger, Concurrency: p.concurrency, InFlight: &p.inFlight})
	r.Apply = func(ctx context.Context, order []model.Media) {
		for i := range order {
			order[i].Position = i
		}
		if err := p.media.Put(ctx, projectID, order); err != nil {
			p.logger.Warn("failed to cache media order", "project", projectID, "error", err)
		}
	}
	r.OnDone = func(out ordering.Outcome) {
		if !out.OK() {
			_ = p.media.Expire(context.Background(), projectID, p.failTTL)
		}
	}
	return r.Reorder(ctx, items, sourceID, targetID), nil
}

// Refresh reloads the project listing from the source and drops every
// cached media listing.
func (p *Portfolio) Refresh(ctx context.Context) error {
	projects, err := p.src.ListProjects(ctx, true)
	if err != nil {
		return err
	}
	if err := p.projects.Put(ctx, projectsScope, projects); err != nil {
		return err
	}
	return p.media.InvalidateAll(ctx)
}

func (p *Portfolio) invalidateProjects(ctx context.Context) {
	if err := p.projects.Invalidate(ctx, projectsScope); err != nil {
		p.logger.Warn("failed to invalidate project cache", "error", err)
	}
}

func (p *Portfolio) removeFile(name string) {
	if p.bucket == nil || !storage.Managed(name) {
		return
	}
	if err := p.bucket.Remove(name); err != nil {
		p.logger.Warn("failed to remove stored file",
			"category", model.EventCategoryMedia,
			"path", name,
			"error", err,
		)
	}
}
