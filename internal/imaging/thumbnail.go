// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging renders project thumbnails with pure Go libraries.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrUnsupportedFormat is returned for data that is not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("imaging: unsupported image format")

// ThumbnailConfig sets the size and quality of project thumbnails.
type ThumbnailConfig struct {
	Width   int
	Height  int
	Quality int
}

// DefaultThumbnail matches the 4:3 cards of the work gallery.
var DefaultThumbnail = ThumbnailConfig{Width: 800, Height: 600, Quality: 85}

// Thumbnail is an encoded thumbnail image.
type Thumbnail struct {
	Data   []byte
	Ext    string // file extension without dot
	Width  int
	Height int
}

// Thumbnailer turns uploaded images into cropped thumbnails.
type Thumbnailer struct {
	cfg ThumbnailConfig
}

// NewThumbnailer creates a thumbnailer. Zero fields fall back to DefaultThumbnail.
func NewThumbnailer(cfg ThumbnailConfig) *Thumbnailer {
	if cfg.Width <= 0 {
		cfg.Width = DefaultThumbnail.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultThumbnail.Height
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = DefaultThumbnail.Quality
	}
	return &Thumbnailer{cfg: cfg}
}

// Make decodes r, applies its EXIF orientation and center-crops it to the
// configured size. PNG stays PNG; everything else is written as JPEG.
// Sources smaller than the target are cropped to its aspect ratio only.
func (t *Thumbnailer) Make(r io.Reader) (*Thumbnail, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	format := DetectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	w, h := t.cfg.Width, t.cfg.Height
	b := img.Bounds()
	if b.Dx() < w || b.Dy() < h {
		scale := min(float64(b.Dx())/float64(w), float64(b.Dy())/float64(h))
		w, h = max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
	}
	thumb := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)

	outFormat := "jpeg"
	if format == "png" {
		outFormat = "png"
	}
	encoded, err := encodeImage(thumb, outFormat, t.cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	ext := "jpg"
	if outFormat == "png" {
		ext = "png"
	}
	return &Thumbnail{Data: encoded, Ext: ext, Width: thumb.Bounds().Dx(), Height: thumb.Bounds().Dy()}, nil
}

// readExifOrientation returns 1 (normal) when no orientation tag is present.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes EXIF orientation 2..8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetectFormat sniffs the image format of data. TIFF is rejected.
func DetectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}
