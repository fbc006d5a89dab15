// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model holds the portfolio domain types shared by the content
// sources, the service layer and the HTTP handlers.
package model

import (
	"time"

	"github.com/olegiv/studio-go/internal/locale"
)

// Project is one portfolio entry. Text fields come in an English and a
// German variant.
type Project struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	TitleEn       string    `json:"title_en"`
	TitleDe       string    `json:"title_de"`
	SubtitleEn    string    `json:"subtitle_en,omitempty"`
	SubtitleDe    string    `json:"subtitle_de,omitempty"`
	DescriptionEn string    `json:"description_en,omitempty"`
	DescriptionDe string    `json:"description_de,omitempty"`
	Role          string    `json:"role,omitempty"`
	Client        string    `json:"client,omitempty"`
	Year          int       `json:"year,omitempty"`
	Category      string    `json:"category,omitempty"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	Position      int       `json:"position"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrderID identifies the project within the projects scope.
func (p Project) OrderID() string { return p.ID }

// Title returns the title in l, falling back to English when the German
// title is empty.
func (p Project) Title(l locale.Locale) string {
	return pick(l, p.TitleEn, p.TitleDe)
}

// Subtitle returns the subtitle in l.
func (p Project) Subtitle(l locale.Locale) string {
	return pick(l, p.SubtitleEn, p.SubtitleDe)
}

// Description returns the markdown description in l.
func (p Project) Description(l locale.Locale) string {
	return pick(l, p.DescriptionEn, p.DescriptionDe)
}

// ThumbnailURL returns the public URL of the thumbnail, or "".
func (p Project) ThumbnailURL() string {
	return MediaURL(p.ThumbnailPath)
}

func pick(l locale.Locale, en, de string) string {
	if l == locale.DE && de != "" {
		return de
	}
	return en
}

// ProjectInput carries the editable fields of a project. Nil pointers are
// left unchanged on update.
type ProjectInput struct {
	Slug          *string `json:"slug,omitempty"`
	TitleEn       *string `json:"title_en,omitempty"`
	TitleDe       *string `json:"title_de,omitempty"`
	SubtitleEn    *string `json:"subtitle_en,omitempty"`
	SubtitleDe    *string `json:"subtitle_de,omitempty"`
	DescriptionEn *string `json:"description_en,omitempty"`
	DescriptionDe *string `json:"description_de,omitempty"`
	Role          *string `json:"role,omitempty"`
	Client        *string `json:"client,omitempty"`
	Year          *int    `json:"year,omitempty"`
	Category      *string `json:"category,omitempty"`
	IsPublished   *bool   `json:"is_published,omitempty"`
}

// Apply copies the set fields of in onto p.
func (in ProjectInput) Apply(p *Project) {
	setString(&p.Slug, in.Slug)
	setString(&p.TitleEn, in.TitleEn)
	setString(&p.TitleDe, in.TitleDe)
	setString(&p.SubtitleEn, in.SubtitleEn)
	setString(&p.SubtitleDe, in.SubtitleDe)
	setString(&p.DescriptionEn, in.DescriptionEn)
	setString(&p.DescriptionDe, in.DescriptionDe)
	setString(&p.Role, in.Role)
	setString(&p.Client, in.Client)
	setString(&p.Category, in.Category)
	if in.Year != nil {
		p.Year = *in.Year
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
