// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ordering implements position-based ordering for reorderable
// collections: single-element moves, dense renumbering and append
// positions for new items.
package ordering

// Item is anything that takes part in an ordered collection.
type Item interface {
	OrderID() string
}

// Update is the new position of one item.
type Update struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// IndexOf returns the index of the item with the given id, or -1.
func IndexOf[T Item](items []T, id string) int {
	for i, it := range items {
		if it.OrderID() == id {
			return i
		}
	}
	return -1
}

// Move removes the source item and reinserts it at the index the target
// item occupied, shifting the items in between by one. The input slice is
// never modified. It returns false, with the input unchanged, when source
// and target are the same or either id is not in items.
func Move[T Item](items []T, sourceID, targetID string) ([]T, bool) {
	if sourceID == targetID {
		return items, false
	}

	from := IndexOf(items, sourceID)
	to := IndexOf(items, targetID)
	if from < 0 || to < 0 {
		return items, false
	}

	rest := make([]T, 0, len(items)-1)
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)

	out := make([]T, 0, len(items))
	out = append(out, rest[:to]...)
	out = append(out, items[from])
	out = append(out, rest[to:]...)
	return out, true
}

// Renumber assigns each item its index as position, from 0.
func Renumber[T Item](items []T) []Update {
	updates := make([]Update, len(items))
	for i, it := range items {
		updates[i] = Update{ID: it.OrderID(), Position: i}
	}
	return updates
}

// NextPosition returns the position for an item appended to a scope:
// one past the highest existing position, or 0 for an empty scope.
func NextPosition(positions []int) int {
	if len(positions) == 0 {
		return 0
	}
	top := positions[0]
	for _, p := range positions[1:] {
		top = max(top, p)
	}
	return top + 1
}
