// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo keeps a public preview instance fresh. Once the reset
// interval has passed, the database and uploads are wiped at startup so the
// sample portfolio is seeded again.
package demo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// stampFile records the last wipe as unix seconds next to the database.
const stampFile = ".last_reset"

// DefaultInterval is how long preview edits survive.
const DefaultInterval = 24 * time.Hour

// Preview wipes a preview instance.
type Preview struct {
	DBPath     string
	UploadsDir string
	Interval   time.Duration
	Logger     *slog.Logger

	now func() time.Time
}

func (p *Preview) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}

func (p *Preview) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return DefaultInterval
}

func (p *Preview) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Preview) stampPath() string {
	return filepath.Join(filepath.Dir(p.DBPath), stampFile)
}

// LastReset returns the recorded wipe time, zero when none was recorded.
func (p *Preview) LastReset() (time.Time, error) {
	data, err := os.ReadFile(p.stampPath())
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading reset stamp: %w", err)
	}
	sec, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		// A corrupt stamp counts as never reset.
		return time.Time{}, nil
	}
	return time.Unix(sec, 0), nil
}

// ResetIfDue wipes the instance when the interval has passed since the
// last wipe and reports whether it did.
func (p *Preview) ResetIfDue() (bool, error) {
	last, err := p.LastReset()
	if err != nil {
		return false, err
	}
	if !last.IsZero() && p.clock().Sub(last) < p.interval() {
		p.logger().Info("preview reset not due",
			"last_reset", last.UTC().Format(time.RFC3339),
			"next_reset", last.Add(p.interval()).UTC().Format(time.RFC3339))
		return false, nil
	}
	if err := p.Reset(); err != nil {
		return false, err
	}
	return true, nil
}

// Reset deletes the database with its WAL files, empties the uploads
// directory and records the wipe.
func (p *Preview) Reset() error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(p.DBPath + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", p.DBPath+suffix, err)
		}
	}
	if err := emptyDir(p.UploadsDir); err != nil {
		return fmt.Errorf("clearing uploads: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(p.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	stamp := strconv.FormatInt(p.clock().UTC().Unix(), 10)
	if err := os.WriteFile(p.stampPath(), []byte(stamp), 0644); err != nil {
		return fmt.Errorf("writing reset stamp: %w", err)
	}

	p.logger().Info("preview reset", "db", p.DBPath, "uploads", p.UploadsDir)
	return nil
}

// emptyDir removes everything inside dir but keeps dir.
func emptyDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
