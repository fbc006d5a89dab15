// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/olegiv/studio-go/internal/model"
)

//go:embed data/work.yaml
var sampleWork []byte

type localized struct {
	En string `yaml:"en"`
	De string `yaml:"de"`
}

type staticMedia struct {
	Type string `yaml:"type"`
	Src  string `yaml:"src"`
	Alt  string `yaml:"alt"`
}

type staticProject struct {
	Slug        string        `yaml:"slug"`
	Title       localized     `yaml:"title"`
	Subtitle    localized     `yaml:"subtitle"`
	Description localized     `yaml:"description"`
	Role        string        `yaml:"role"`
	Client      string        `yaml:"client"`
	Year        int           `yaml:"year"`
	Category    string        `yaml:"category"`
	Thumbnail   string        `yaml:"thumbnail"`
	Media       []staticMedia `yaml:"media"`
}

type staticFile struct {
	Projects []staticProject `yaml:"projects"`
}

// Static serves a fixed portfolio parsed from YAML. Every write returns
// ErrReadOnly.
type Static struct {
	projects []model.Project
	media    map[string][]model.Media
}

// NewStatic returns the embedded sample portfolio.
func NewStatic() (*Static, error) {
	return ParseStatic(sampleWork)
}

// ParseStatic builds a Static source from YAML. Projects and media keep
// file order as their positions; ids are derived from slugs.
func ParseStatic(data []byte) (*Static, error) {
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing static content: %w", err)
	}

	s := &Static{media: make(map[string][]model.Media, len(f.Projects))}
	seen := make(map[string]bool, len(f.Projects))
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, sp := range f.Projects {
		if sp.Slug == "" {
			return nil, fmt.Errorf("static project %d: missing slug", i)
		}
		if seen[sp.Slug] {
			return nil, fmt.Errorf("static project %d: duplicate slug %q", i, sp.Slug)
		}
		seen[sp.Slug] = true

		id := "static-" + sp.Slug
		s.projects = append(s.projects, model.Project{
			ID:            id,
			Slug:          sp.Slug,
			TitleEn:       sp.Title.En,
			TitleDe:       sp.Title.De,
			SubtitleEn:    sp.Subtitle.En,
			SubtitleDe:    sp.Subtitle.De,
			DescriptionEn: sp.Description.En,
			DescriptionDe: sp.Description.De,
			Role:          sp.Role,
			Client:        sp.Client,
			Year:          sp.Year,
			Category:      sp.Category,
			ThumbnailPath: sp.Thumbnail,
			Position:      i,
			IsPublished:   true,
			CreatedAt:     created,
			UpdatedAt:     created,
		})

		for j, sm := range sp.Media {
			typ := model.MediaType(sm.Type)
			if typ == "" {
				typ = model.DetectMediaType(sm.Src)
			}
			s.media[id] = append(s.media[id], model.Media{
				ID:        id + "-" + strconv.Itoa(j),
				ProjectID: id,
				Position:  j,
				Type:      typ,
				FilePath:  sm.Src,
				AltText:   sm.Alt,
				CreatedAt: created,
			})
		}
	}
	return s, nil
}

// Kind implements Source.
func (s *Static) Kind() string { return KindStatic }

// ListProjects returns a copy of the projects ordered by position.
func (s *Static) ListProjects(_ context.Context, _ bool) ([]model.Project, error) {
	out := make([]model.Project, len(s.projects))
	copy(out, s.projects)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

// GetProject returns a project by id.
func (s *Static) GetProject(_ context.Context, id string) (model.Project, error) {
	for _, p := range s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Project{}, ErrNotFound
}

// GetProjectBySlug returns a project by slug.
func (s *Static) GetProjectBySlug(_ context.Context, slug string) (model.Project, error) {
	for _, p := range s.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return model.Project{}, ErrNotFound
}

// CountProjects returns the number of projects.
func (s *Static) CountProjects(context.Context) (int, error) {
	return len(s.projects), nil
}

// ListMedia returns a copy of a project's media.
func (s *Static) ListMedia(_ context.Context, projectID string) ([]model.Media, error) {
	out := make([]model.Media, len(s.media[projectID]))
	copy(out, s.media[projectID])
	return out, nil
}

// MediaByProject returns the media of several projects keyed by project id.
func (s *Static) MediaByProject(ctx context.Context, projectIDs []string) (map[string][]model.Media, error) {
	out := make(map[string][]model.Media, len(projectIDs))
	for _, id := range projectIDs {
		media, _ := s.ListMedia(ctx, id)
		if len(media) > 0 {
			out[id] = media
		}
	}
	return out, nil
}

// GetMedia returns a medium by id.
func (s *Static) GetMedia(_ context.Context, id string) (model.Media, error) {
	for _, media := range s.media {
		for _, m := range media {
			if m.ID == id {
				return m, nil
			}
		}
	}
	return model.Media{}, ErrNotFound
}

func (s *Static) CreateProject(context.Context, model.Project) (model.Project, error) {
	return model.Project{}, ErrReadOnly
}

func (s *Static) UpdateProject(context.Context, model.Project) (model.Project, error) {
	return model.Project{}, ErrReadOnly
}

func (s *Static) SetProjectThumbnail(context.Context, string, string) error { return ErrReadOnly }

func (s *Static) DeleteProject(context.Context, string) error { return ErrReadOnly }

func (s *Static) UpdateProjectPosition(context.Context, string, int) error { return ErrReadOnly }

func (s *Static) CreateMedia(context.Context, model.Media) (model.Media, error) {
	return model.Media{}, ErrReadOnly
}

func (s *Static) UpdateMediaAltText(context.Context, string, string) error { return ErrReadOnly }

func (s *Static) MoveMedia(context.Context, string, string) (model.Media, error) {
	return model.Media{}, ErrReadOnly
}

func (s *Static) DeleteMedia(context.Context, string) error { return ErrReadOnly }

func (s *Static) UpdateMediaPosition(context.Context, string, string, int) error {
	return ErrReadOnly
}

var _ Source = (*Static)(nil)
