// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package overlay applies a user's manual feed ordering on top of freshly
// fetched content.
//
// The stored order is a list of item ids captured the last time the user
// reordered the feed. Content changes between refreshes, so the order is
// treated as a soft overlay rather than a source of truth:
//
//   - referenced items that are still present come first, in stored order
//   - items the order does not mention follow, in feed order
//   - ids that no longer resolve are dropped silently
//
// Project is pure and idempotent: projecting a projection with the same order
// returns the same sequence.
package overlay

import (
	"errors"
	"fmt"

	"github.com/tomtom215/feedwise/internal/models"
)

// ErrIndexOutOfRange is returned by Move when an index does not address an item.
var ErrIndexOutOfRange = errors.New("index out of range")

// Project returns feed reordered by order. The input slices are never mutated
// and the result never aliases feed's backing array.
func Project(feed []models.ContentItem, order []string) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(feed))
	if len(order) == 0 {
		return append(out, feed...)
	}

	// First occurrence wins if the feed itself carries a duplicate id.
	index := make(map[string]int, len(feed))
	for i := range feed {
		if _, seen := index[feed[i].ID]; !seen {
			index[feed[i].ID] = i
		}
	}

	placed := make([]bool, len(feed))
	for _, id := range order {
		i, ok := index[id]
		if !ok || placed[i] {
			continue
		}
		placed[i] = true
		out = append(out, feed[i])
	}

	for i := range feed {
		if !placed[i] {
			out = append(out, feed[i])
		}
	}
	return out
}

// Move returns a copy of items with the element at from relocated to to,
// shifting the elements between them. Both indexes address items.
func Move(items []models.ContentItem, from, to int) ([]models.ContentItem, error) {
	n := len(items)
	if from < 0 || from >= n {
		return nil, fmt.Errorf("move from %d (len %d): %w", from, n, ErrIndexOutOfRange)
	}
	if to < 0 || to >= n {
		return nil, fmt.Errorf("move to %d (len %d): %w", to, n, ErrIndexOutOfRange)
	}

	out := make([]models.ContentItem, n)
	copy(out, items)
	if from == to {
		return out, nil
	}

	moved := out[from]
	if from < to {
		copy(out[from:to], out[from+1:to+1])
	} else {
		copy(out[to+1:from+1], out[to:from])
	}
	out[to] = moved
	return out, nil
}

// Normalize collapses duplicate ids in an order, keeping first occurrences,
// and drops empty ids. The result is nil when nothing remains.
func Normalize(order []string) []string {
	if len(order) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(order))
	out := make([]string, 0, len(order))
	for _, id := range order {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// IDs returns the id sequence of items, the form persisted as a feed order.
func IDs(items []models.ContentItem) []string {
	return models.ItemIDs(items)
}
