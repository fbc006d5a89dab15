// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "store-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createTestProject(t *testing.T, q *Queries, id, slug string, position int64, published bool) Project {
	t.Helper()

	now := time.Now()
	p, err := q.CreateProject(context.Background(), CreateProjectParams{
		ID:          id,
		Slug:        slug,
		TitleEn:     "Title " + slug,
		TitleDe:     "Titel " + slug,
		Position:    position,
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateProject(%s): %v", slug, err)
	}
	return p
}

func createTestMedium(t *testing.T, q *Queries, id, projectID string, position int64) ProjectMedium {
	t.Helper()

	m, err := q.CreateProjectMedium(context.Background(), CreateProjectMediumParams{
		ID:        id,
		ProjectID: projectID,
		Position:  position,
		Type:      "image",
		FilePath:  projectID + "/" + id + ".jpg",
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateProjectMedium(%s): %v", id, err)
	}
	return m
}

func TestCreateProject(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	now := time.Now()
	p, err := q.CreateProject(ctx, CreateProjectParams{
		ID:            "p1",
		Slug:          "brand-refresh",
		TitleEn:       "Brand Refresh",
		TitleDe:       "Markenauffrischung",
		DescriptionEn: sql.NullString{String: "A refresh.", Valid: true},
		Year:          sql.NullInt64{Int64: 2024, Valid: true},
		Position:      3,
		IsPublished:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if p.Slug != "brand-refresh" {
		t.Errorf("Slug = %q, want %q", p.Slug, "brand-refresh")
	}
	if p.TitleDe != "Markenauffrischung" {
		t.Errorf("TitleDe = %q, want %q", p.TitleDe, "Markenauffrischung")
	}
	if !p.Year.Valid || p.Year.Int64 != 2024 {
		t.Errorf("Year = %v, want 2024", p.Year)
	}
	if p.SubtitleEn.Valid {
		t.Errorf("SubtitleEn = %v, want NULL", p.SubtitleEn)
	}
	if p.Position != 3 {
		t.Errorf("Position = %d, want 3", p.Position)
	}
	if !p.IsPublished {
		t.Error("IsPublished = false, want true")
	}
}

func TestCreateProject_DuplicateSlug(t *testing.T) {
	q := New(testDB(t))
	createTestProject(t, q, "p1", "same", 0, true)

	now := time.Now()
	_, err := q.CreateProject(context.Background(), CreateProjectParams{
		ID: "p2", Slug: "same", TitleEn: "x", TitleDe: "x", CreatedAt: now, UpdatedAt: now,
	})
	if err == nil {
		t.Error("CreateProject with duplicate slug should fail")
	}
}

func TestGetProject(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "p1", "first", 0, true)

	byID, err := q.GetProjectByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProjectByID: %v", err)
	}
	if byID.Slug != "first" {
		t.Errorf("Slug = %q, want %q", byID.Slug, "first")
	}

	bySlug, err := q.GetProjectBySlug(ctx, "first")
	if err != nil {
		t.Fatalf("GetProjectBySlug: %v", err)
	}
	if bySlug.ID != "p1" {
		t.Errorf("ID = %q, want %q", bySlug.ID, "p1")
	}

	if _, err := q.GetProjectByID(ctx, "missing"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetProjectByID(missing) error = %v, want sql.ErrNoRows", err)
	}
}

func TestListProjects_Ordering(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "c", "c", 2, true)
	createTestProject(t, q, "a", "a", 0, true)
	createTestProject(t, q, "b", "b", 1, false)

	all, err := q.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if got := ids(all); got != "a,b,c" {
		t.Errorf("ListProjects order = %s, want a,b,c", got)
	}

	published, err := q.ListPublishedProjects(ctx)
	if err != nil {
		t.Fatalf("ListPublishedProjects: %v", err)
	}
	if got := ids(published); got != "a,c" {
		t.Errorf("ListPublishedProjects = %s, want a,c", got)
	}

	n, err := q.CountProjects(ctx)
	if err != nil {
		t.Fatalf("CountProjects: %v", err)
	}
	if n != 3 {
		t.Errorf("CountProjects = %d, want 3", n)
	}
}

func TestGetMaxProjectPosition(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	last, err := q.GetMaxProjectPosition(ctx)
	if err != nil {
		t.Fatalf("GetMaxProjectPosition: %v", err)
	}
	if last.Valid {
		t.Errorf("empty table last = %v, want NULL", last)
	}

	createTestProject(t, q, "a", "a", 4, true)
	createTestProject(t, q, "b", "b", 7, true)

	last, err = q.GetMaxProjectPosition(ctx)
	if err != nil {
		t.Fatalf("GetMaxProjectPosition: %v", err)
	}
	if !last.Valid || last.Int64 != 7 {
		t.Errorf("last = %v, want 7", last)
	}
}

func TestUpdateProject(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "p1", "old", 0, true)

	updated, err := q.UpdateProject(ctx, UpdateProjectParams{
		Slug:        "new",
		TitleEn:     "New",
		TitleDe:     "Neu",
		Client:      sql.NullString{String: "ACME", Valid: true},
		IsPublished: false,
		UpdatedAt:   time.Now(),
		ID:          "p1",
	})
	if err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	if updated.Slug != "new" || updated.TitleDe != "Neu" {
		t.Errorf("UpdateProject = %q/%q, want new/Neu", updated.Slug, updated.TitleDe)
	}
	if updated.IsPublished {
		t.Error("IsPublished = true, want false")
	}
	if updated.Client.String != "ACME" {
		t.Errorf("Client = %q, want ACME", updated.Client.String)
	}

	if err := q.UpdateProjectThumbnail(ctx, UpdateProjectThumbnailParams{
		ThumbnailPath: sql.NullString{String: "thumbnails/new/x.jpg", Valid: true},
		UpdatedAt:     time.Now(),
		ID:            "p1",
	}); err != nil {
		t.Fatalf("UpdateProjectThumbnail: %v", err)
	}
	got, err := q.GetProjectByID(ctx, "p1")
	if err != nil {
		t.Fatalf("GetProjectByID: %v", err)
	}
	if got.ThumbnailPath.String != "thumbnails/new/x.jpg" {
		t.Errorf("ThumbnailPath = %q", got.ThumbnailPath.String)
	}
}

func TestUpdateProjectPosition(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "p1", "p1", 0, true)

	n, err := q.UpdateProjectPosition(ctx, UpdateProjectPositionParams{Position: 5, UpdatedAt: time.Now(), ID: "p1"})
	if err != nil {
		t.Fatalf("UpdateProjectPosition: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}

	n, err = q.UpdateProjectPosition(ctx, UpdateProjectPositionParams{Position: 5, UpdatedAt: time.Now(), ID: "gone"})
	if err != nil {
		t.Fatalf("UpdateProjectPosition(gone): %v", err)
	}
	if n != 0 {
		t.Errorf("rows for unknown id = %d, want 0", n)
	}
}

func TestDeleteProject_CascadesMedia(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "p1", "p1", 0, true)
	createTestMedium(t, q, "m1", "p1", 0)

	if err := q.DeleteProject(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := q.GetProjectMedium(ctx, "m1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("medium after project delete: err = %v, want sql.ErrNoRows", err)
	}
}

func TestProjectMedia(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "p1", "p1", 0, true)
	createTestProject(t, q, "p2", "p2", 1, true)
	createTestMedium(t, q, "m2", "p1", 1)
	createTestMedium(t, q, "m1", "p1", 0)
	createTestMedium(t, q, "x1", "p2", 0)

	media, err := q.ListProjectMedia(ctx, "p1")
	if err != nil {
		t.Fatalf("ListProjectMedia: %v", err)
	}
	if got := mediaIDs(media); got != "m1,m2" {
		t.Errorf("ListProjectMedia = %s, want m1,m2", got)
	}

	all, err := q.ListMediaByProjectIDs(ctx, []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("ListMediaByProjectIDs: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListMediaByProjectIDs len = %d, want 3", len(all))
	}

	none, err := q.ListMediaByProjectIDs(ctx, nil)
	if err != nil || none != nil {
		t.Errorf("ListMediaByProjectIDs(nil) = %v, %v; want nil, nil", none, err)
	}

	last, err := q.GetMaxMediaPosition(ctx, "p1")
	if err != nil {
		t.Fatalf("GetMaxMediaPosition: %v", err)
	}
	if last.Int64 != 1 {
		t.Errorf("GetMaxMediaPosition = %d, want 1", last.Int64)
	}
}

func TestUpdateMediumPosition_ScopedToProject(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "p1", "p1", 0, true)
	createTestProject(t, q, "p2", "p2", 1, true)
	createTestMedium(t, q, "x1", "p2", 0)

	// Wrong project: the row belongs to p2.
	n, err := q.UpdateMediumPosition(ctx, UpdateMediumPositionParams{Position: 9, ID: "x1", ProjectID: "p1"})
	if err != nil {
		t.Fatalf("UpdateMediumPosition: %v", err)
	}
	if n != 0 {
		t.Errorf("rows = %d, want 0", n)
	}
	m, err := q.GetProjectMedium(ctx, "x1")
	if err != nil {
		t.Fatalf("GetProjectMedium: %v", err)
	}
	if m.Position != 0 {
		t.Errorf("Position = %d, want 0 (untouched)", m.Position)
	}

	n, err = q.UpdateMediumPosition(ctx, UpdateMediumPositionParams{Position: 9, ID: "x1", ProjectID: "p2"})
	if err != nil {
		t.Fatalf("UpdateMediumPosition: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
}

func TestMoveMediumAndAltText(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()
	createTestProject(t, q, "p1", "p1", 0, true)
	createTestProject(t, q, "p2", "p2", 1, true)
	createTestMedium(t, q, "m1", "p1", 0)

	if _, err := q.MoveMediumToProject(ctx, MoveMediumToProjectParams{ProjectID: "p2", Position: 4, ID: "m1"}); err != nil {
		t.Fatalf("MoveMediumToProject: %v", err)
	}
	if _, err := q.UpdateMediumAltText(ctx, "m1", sql.NullString{String: "Poster", Valid: true}); err != nil {
		t.Fatalf("UpdateMediumAltText: %v", err)
	}

	m, err := q.GetProjectMedium(ctx, "m1")
	if err != nil {
		t.Fatalf("GetProjectMedium: %v", err)
	}
	if m.ProjectID != "p2" || m.Position != 4 {
		t.Errorf("moved medium = %s@%d, want p2@4", m.ProjectID, m.Position)
	}
	if m.AltText.String != "Poster" {
		t.Errorf("AltText = %q, want Poster", m.AltText.String)
	}

	if err := q.DeleteProjectMedium(ctx, "m1"); err != nil {
		t.Fatalf("DeleteProjectMedium: %v", err)
	}
	if _, err := q.GetProjectMedium(ctx, "m1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("after delete err = %v, want sql.ErrNoRows", err)
	}
}

func TestMediaTypeConstraint(t *testing.T) {
	q := New(testDB(t))
	createTestProject(t, q, "p1", "p1", 0, true)

	_, err := q.CreateProjectMedium(context.Background(), CreateProjectMediumParams{
		ID: "bad", ProjectID: "p1", Type: "audio", FilePath: "p1/a.mp3", CreatedAt: time.Now(),
	})
	if err == nil {
		t.Error("CreateProjectMedium with type audio should fail")
	}
}

func TestEvents(t *testing.T) {
	q := New(testDB(t))
	ctx := context.Background()

	for i, msg := range []string{"first", "second"} {
		_, err := q.CreateEvent(ctx, CreateEventParams{
			Level:     "warning",
			Category:  "reorder",
			Message:   msg,
			Metadata:  `{"scope":"projects"}`,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("CreateEvent: %v", err)
		}
	}
	if _, err := q.CreateEvent(ctx, CreateEventParams{
		Level: "error", Category: "system", Message: "other", Metadata: "{}", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	events, err := q.ListEventsByCategory(ctx, "reorder", 10)
	if err != nil {
		t.Fatalf("ListEventsByCategory: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].Message != "second" {
		t.Errorf("newest = %q, want second", events[0].Message)
	}

	all, err := q.ListEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListEvents len = %d, want 3", len(all))
	}

	n, err := q.DeleteEventsBefore(ctx, time.Now().Add(500*time.Millisecond))
	if err != nil {
		t.Fatalf("DeleteEventsBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteEventsBefore removed %d, want 2", n)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	q := New(db)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	now := time.Now()
	if _, err := q.WithTx(tx).CreateProject(ctx, CreateProjectParams{
		ID: "tx", Slug: "tx", TitleEn: "tx", TitleDe: "tx", CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateProject in tx: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	n, err := q.CountProjects(ctx)
	if err != nil {
		t.Fatalf("CountProjects: %v", err)
	}
	if n != 0 {
		t.Errorf("CountProjects after rollback = %d, want 0", n)
	}
}

func ids(ps []Project) string {
	s := ""
	for i, p := range ps {
		if i > 0 {
			s += ","
		}
		s += p.ID
	}
	return s
}

func mediaIDs(ms []ProjectMedium) string {
	s := ""
	for i, m := range ms {
		if i > 0 {
			s += ","
		}
		s += m.ID
	}
	return s
}
