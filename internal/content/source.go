// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content provides the portfolio data sources. A Source is chosen
// once at startup: Remote is backed by SQLite, Static serves the embedded
// sample portfolio and rejects writes.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/olegiv/studio-go/internal/model"
)

// Source kinds accepted by Open.
const (
	KindRemote = "remote"
	KindStatic = "static"
)

var (
	// ErrNotFound is returned when a project or medium does not exist.
	ErrNotFound = errors.New("content: not found")

	// ErrReadOnly is returned by every write on a read-only source.
	ErrReadOnly = errors.New("content: data source is read-only")
)

// Reader is the read side of a data source. Listings are ordered by
// position.
type Reader interface {
	ListProjects(ctx context.Context, includeUnpublished bool) ([]model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (model.Project, error)
	CountProjects(ctx context.Context) (int, error)

	ListMedia(ctx context.Context, projectID string) ([]model.Media, error)
	// MediaByProject returns the media of several projects keyed by project id.
	MediaByProject(ctx context.Context, projectIDs []string) (map[string][]model.Media, error)
	GetMedia(ctx context.Context, id string) (model.Media, error)
}

// Writer is the write side of a data source. Creation appends the new item
// at the end of its scope; position fields on the argument are ignored.
type Writer interface {
	CreateProject(ctx context.Context, p model.Project) (model.Project, error)
	UpdateProject(ctx context.Context, p model.Project) (model.Project, error)
	SetProjectThumbnail(ctx context.Context, id, path string) error
	DeleteProject(ctx context.Context, id string) error
	UpdateProjectPosition(ctx context.Context, id string, position int) error

	CreateMedia(ctx context.Context, m model.Media) (model.Media, error)
	UpdateMediaAltText(ctx context.Context, id, altText string) error
	// MoveMedia reassigns a medium to another project, appended at the end.
	MoveMedia(ctx context.Context, id, projectID string) (model.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	// UpdateMediaPosition only touches media of projectID.
	UpdateMediaPosition(ctx context.Context, projectID, id string, position int) error
}

// Source is a complete data source.
type Source interface {
	Reader
	Writer
	Kind() string
}

// ValidKind reports whether kind names a known source.
func ValidKind(kind string) error {
	switch kind {
	case KindRemote, KindStatic:
		return nil
	default:
		return fmt.Errorf("unknown data source %q (want %s or %s)", kind, KindRemote, KindStatic)
	}
}
