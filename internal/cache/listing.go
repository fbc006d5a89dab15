// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Listing caches ordered lists of T as JSON, one entry per scope key.
type Listing[T any] struct {
	cache Cache
	ns    string
	ttl   time.Duration
}

// NewListing creates a typed listing cache. Keys are stored under ns.
func NewListing[T any](c Cache, ns string, ttl time.Duration) *Listing[T] {
	return &Listing[T]{cache: c, ns: ns + ":", ttl: ttl}
}

func (l *Listing[T]) key(scope string) string {
	return l.ns + scope
}

// Get returns the cached list for scope and whether it was present.
func (l *Listing[T]) Get(ctx context.Context, scope string) ([]T, bool) {
	data, err := l.cache.Get(ctx, l.key(scope))
	if err != nil {
		return nil, false
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false
	}
	return items, true
}

// Put stores items for scope with the default TTL.
func (l *Listing[T]) Put(ctx context.Context, scope string, items []T) error {
	return l.PutTTL(ctx, scope, items, l.ttl)
}

// PutTTL stores items for scope with a custom TTL.
func (l *Listing[T]) PutTTL(ctx context.Context, scope string, items []T, ttl time.Duration) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return l.cache.Set(ctx, l.key(scope), data, ttl)
}

// Expire shortens the lifetime of the entry for scope so the next read
// after ttl reloads from storage. Missing entries are left missing.
func (l *Listing[T]) Expire(ctx context.Context, scope string, ttl time.Duration) error {
	items, ok := l.Get(ctx, scope)
	if !ok {
		return nil
	}
	return l.PutTTL(ctx, scope, items, ttl)
}

// Invalidate drops the entry for scope.
func (l *Listing[T]) Invalidate(ctx context.Context, scope string) error {
	return l.cache.Delete(ctx, l.key(scope))
}

// InvalidateAll drops every entry of this listing.
func (l *Listing[T]) InvalidateAll(ctx context.Context) error {
	return l.cache.DeleteByPrefix(ctx, l.ns)
}

// Load returns the cached list for scope, or calls fn and caches its result.
func (l *Listing[T]) Load(ctx context.Context, scope string, fn func(context.Context) ([]T, error)) ([]T, error) {
	if items, ok := l.Get(ctx, scope); ok {
		return items, nil
	}
	items, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	_ = l.Put(ctx, scope, items)
	return items, nil
}
