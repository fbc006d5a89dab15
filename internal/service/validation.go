// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/olegiv/studio-go/internal/model"
	"github.com/olegiv/studio-go/internal/util"
)

// Upload limits
const (
	MaxMediaSize     = 100 << 20
	MaxThumbnailSize = 20 << 20
	maxAltTextLength = 500
)

var mediaExtensions = []any{"jpg", "jpeg", "png", "webp", "gif", "mp4", "webm", "mov", "avi"}

var slugRule = validation.By(func(value any) error {
	s, _ := value.(string)
	if s != "" && !util.IsValidSlug(s) {
		return validation.NewError("validation_slug", "must contain only lowercase letters, digits and single hyphens")
	}
	return nil
})

func validateProject(p *model.Project) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Slug, validation.Required, validation.Length(1, 120), slugRule),
		validation.Field(&p.TitleEn, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.TitleDe, validation.Length(0, 200)),
		validation.Field(&p.SubtitleEn, validation.Length(0, 300)),
		validation.Field(&p.SubtitleDe, validation.Length(0, 300)),
		validation.Field(&p.Role, validation.Length(0, 200)),
		validation.Field(&p.Client, validation.Length(0, 200)),
		validation.Field(&p.Category, validation.Length(0, 100)),
		validation.Field(&p.Year, validation.Min(1900), validation.Max(2100)),
	)
}

func validateMediaUpload(filename, altText string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	errs := validation.Errors{}
	if err := validation.Validate(ext, validation.Required, validation.In(mediaExtensions...)); err != nil {
		errs["file"] = validation.NewError("validation_media_type", "unsupported file type")
	}
	if err := validation.Validate(altText, validation.Length(0, maxAltTextLength)); err != nil {
		errs["alt_text"] = err
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateAltText(altText string) error {
	err := validation.Validate(altText, validation.Length(0, maxAltTextLength))
	if err != nil {
		return validation.Errors{"alt_text": err}
	}
	return nil
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Validate checks that every field is present and the e-mail is well formed.
func (m ContactMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&m.Email, validation.Required, is.EmailFormat),
		validation.Field(&m.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// ValidationErrors returns the field errors carried by err, if any.
func ValidationErrors(err error) (validation.Errors, bool) {
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs, true
	}
	return nil, false
}

func fieldError(field, code, message string) error {
	return validation.Errors{field: validation.NewError(code, message)}
}

func normalizeSlug(p *model.Project) {
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = util.Slugify(p.TitleEn)
	}
}
