// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves client IP addresses to ISO country codes with a
// MaxMind GeoLite2-Country database. It supplies the country signal for
// locale detection when no edge header carries one.
package geoip

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Lookup handles IP to country lookup using MaxMind GeoLite2-Country database.
// The zero value has no database and resolves nothing.
type Lookup struct {
	db        *maxminddb.Reader
	dbPath    string
	dbModTime time.Time
	mu        sync.RWMutex
}

// geoRecord matches the GeoLite2-Country database structure.
type geoRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// NewLookup creates a new GeoIP lookup instance.
func NewLookup() *Lookup {
	return &Lookup{}
}

// Open loads the database at dbPath. An empty path leaves lookups disabled.
func (g *Lookup) Open(dbPath string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.dbPath = dbPath
	if dbPath == "" {
		return nil
	}
	return g.load()
}

// load opens the database unless the file is unchanged since the last load.
// Caller must hold g.mu write lock.
func (g *Lookup) load() error {
	info, err := os.Stat(g.dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("GeoIP database not found: %s", g.dbPath)
		}
		return fmt.Errorf("GeoIP database stat error: %w", err)
	}

	if g.db != nil && info.ModTime().Equal(g.dbModTime) {
		return nil
	}

	db, err := maxminddb.Open(g.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open GeoIP database: %w", err)
	}

	if g.db != nil {
		_ = g.db.Close()
	}
	g.db = db
	g.dbModTime = info.ModTime()
	return nil
}

// Reload picks up a replaced database file. The old database stays in use
// when the new one cannot be opened.
func (g *Lookup) Reload() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.dbPath == "" {
		return nil
	}
	return g.load()
}

// Country returns the ISO country code for ip, or "" when it is invalid,
// private, loopback or not in the database.
func (g *Lookup) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || !Public(parsed) {
		return ""
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.db == nil {
		return ""
	}

	var record geoRecord
	if err := g.db.Lookup(parsed, &record); err != nil {
		return ""
	}
	return record.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (g *Lookup) Enabled() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.db != nil
}

// Close closes the GeoIP database.
func (g *Lookup) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.db == nil {
		return nil
	}
	err := g.db.Close()
	g.db = nil
	return err
}

// Public reports whether ip is a globally routable address.
func Public(ip net.IP) bool {
	return !(ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified())
}
