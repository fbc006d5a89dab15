// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package storage keeps uploaded project files in a local directory and
// serves them under /media/.
package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for paths that escape the bucket root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Bucket is a directory of uploaded files addressed by slash-separated
// relative paths.
type Bucket struct {
	root string
	now  func() time.Time
}

// NewBucket creates the root directory if needed.
func NewBucket(root string) (*Bucket, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Bucket{root: abs, now: time.Now}, nil
}

// Root returns the absolute root directory.
func (b *Bucket) Root() string { return b.root }

// ObjectName builds "<dir>/<unix-ms>-<uuid>.<ext>" for an upload named
// filename. The extension is lowercased; files without one get none.
func (b *Bucket) ObjectName(dir, filename string) string {
	name := strconv.FormatInt(b.now().UnixMilli(), 10) + "-" + uuid.NewString()
	if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")); ext != "" {
		name += "." + ext
	}
	return path.Join(dir, name)
}

func (b *Bucket) resolve(name string) (string, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || name != clean {
		return "", ErrInvalidPath
	}
	full := filepath.Join(b.root, filepath.FromSlash(clean))
	rel, err := filepath.Rel(b.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

// Put writes r to name and returns the number of bytes written. A partial
// file is removed when the copy fails.
func (b *Bucket) Put(name string, r io.Reader) (int64, error) {
	full, err := b.resolve(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return 0, fmt.Errorf("writing file: %w", err)
	}
	return n, nil
}

// Remove deletes name. Missing files are not an error.
func (b *Bucket) Remove(name string) error {
	full, err := b.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether name is a stored file.
func (b *Bucket) Exists(name string) bool {
	full, err := b.resolve(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && !info.IsDir()
}

// Managed reports whether a stored path belongs to this bucket rather than
// being an external URL or a site asset.
func Managed(p string) bool {
	return p != "" && !strings.HasPrefix(p, "/") && !strings.Contains(p, "://")
}

// Handler serves the bucket's files without directory listings.
func (b *Bucket) Handler() http.Handler {
	fs := http.FileServer(http.Dir(b.root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		fs.ServeHTTP(w, r)
	})
}
