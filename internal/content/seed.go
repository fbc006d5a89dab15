// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"log/slog"
)

// Seed copies every project of src, with its media, into dst when dst is
// empty. It returns the number of projects inserted.
func Seed(ctx context.Context, dst Source, src Reader, logger *slog.Logger) (int, error) {
	count, err := dst.CountProjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting projects: %w", err)
	}
	if count > 0 {
		logger.Debug("seed skipped, projects already exist", "count", count)
		return 0, nil
	}

	projects, err := src.ListProjects(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("reading seed projects: %w", err)
	}

	inserted := 0
	for _, p := range projects {
		media, err := src.ListMedia(ctx, p.ID)
		if err != nil {
			return inserted, fmt.Errorf("reading seed media for %s: %w", p.Slug, err)
		}

		p.ID = ""
		created, err := dst.CreateProject(ctx, p)
		if err != nil {
			return inserted, fmt.Errorf("seeding project %s: %w", p.Slug, err)
		}
		for _, m := range media {
			m.ID = ""
			m.ProjectID = created.ID
			if _, err := dst.CreateMedia(ctx, m); err != nil {
				return inserted, fmt.Errorf("seeding media for %s: %w", p.Slug, err)
			}
		}
		inserted++
	}

	logger.Info("seeded portfolio", "projects", inserted)
	return inserted, nil
}
