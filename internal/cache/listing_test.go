// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

func newTestListing(t *testing.T) *Listing[entry] {
	t.Helper()
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = mc.Close() })
	return NewListing[entry](mc, "projects", time.Hour)
}

func TestListing_PutGet(t *testing.T) {
	l := newTestListing(t)
	ctx := context.Background()

	_, ok := l.Get(ctx, "all")
	assert.False(t, ok)

	want := []entry{{"a", 0}, {"b", 1}}
	require.NoError(t, l.Put(ctx, "all", want))

	got, ok := l.Get(ctx, "all")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestListing_NilStoresEmpty(t *testing.T) {
	l := newTestListing(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "empty", nil))
	got, ok := l.Get(ctx, "empty")
	require.True(t, ok)
	assert.Empty(t, got)
}

func TestListing_Load(t *testing.T) {
	l := newTestListing(t)
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) ([]entry, error) {
		calls++
		return []entry{{"a", 0}}, nil
	}

	for range 3 {
		got, err := l.Load(ctx, "all", fn)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err := l.Load(ctx, "other", func(context.Context) ([]entry, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestListing_Expire(t *testing.T) {
	l := newTestListing(t)
	ctx := context.Background()

	require.NoError(t, l.Put(ctx, "all", []entry{{"a", 0}}))
	require.NoError(t, l.Expire(ctx, "all", 20*time.Millisecond))

	_, ok := l.Get(ctx, "all")
	assert.True(t, ok, "entry should survive until the short TTL elapses")

	time.Sleep(40 * time.Millisecond)
	_, ok = l.Get(ctx, "all")
	assert.False(t, ok)

	// Expiring a missing entry is a no-op.
	require.NoError(t, l.Expire(ctx, "missing", time.Millisecond))
}

func TestListing_Invalidate(t *testing.T) {
	mc := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	media := NewListing[entry](mc, "media", time.Hour)
	projects := NewListing[entry](mc, "projects", time.Hour)

	require.NoError(t, media.Put(ctx, "p1", []entry{{"m", 0}}))
	require.NoError(t, media.Put(ctx, "p2", []entry{{"n", 0}}))
	require.NoError(t, projects.Put(ctx, "all", []entry{{"a", 0}}))

	require.NoError(t, media.Invalidate(ctx, "p1"))
	_, ok := media.Get(ctx, "p1")
	assert.False(t, ok)
	_, ok = media.Get(ctx, "p2")
	assert.True(t, ok)

	require.NoError(t, media.InvalidateAll(ctx))
	_, ok = media.Get(ctx, "p2")
	assert.False(t, ok)
	_, ok = projects.Get(ctx, "all")
	assert.True(t, ok, "other namespaces are untouched")
}
