// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"path/filepath"
	"strings"
	"time"
)

// MediaType classifies an uploaded project file.
type MediaType string

// Supported media types
const (
	MediaImage MediaType = "image"
	MediaGIF   MediaType = "gif"
	MediaVideo MediaType = "video"
)

// MediaURLPrefix is where uploaded files are served from.
const MediaURLPrefix = "/media/"

var videoExtensions = map[string]bool{
	"mp4":  true,
	"webm": true,
	"mov":  true,
	"avi":  true,
}

// DetectMediaType derives the media type from a file name's extension.
// Anything that is neither a GIF nor a known video container is an image.
func DetectMediaType(filename string) MediaType {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch {
	case ext == "gif":
		return MediaGIF
	case videoExtensions[ext]:
		return MediaVideo
	default:
		return MediaImage
	}
}

// Media is one file attached to a project.
type Media struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Position  int       `json:"position"`
	Type      MediaType `json:"type"`
	FilePath  string    `json:"file_path"`
	AltText   string    `json:"alt_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderID identifies the medium within its project's scope.
func (m Media) OrderID() string { return m.ID }

// URL returns the public URL of the file.
func (m Media) URL() string { return MediaURL(m.FilePath) }

// MediaURL maps a storage path to its public URL. Absolute URLs pass
// through unchanged.
func MediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "/") {
		return path
	}
	return MediaURLPrefix + path
}
