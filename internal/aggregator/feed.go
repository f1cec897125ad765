// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package aggregator

import (
	"context"
	"sync"

	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/overlay"
)

// PreferenceStore is the part of the preference store a Feed needs.
type PreferenceStore interface {
	Snapshot() models.UserPreferences
	SetFeedOrder(ctx context.Context, ids []string) models.UserPreferences
}

// FeedState is a point-in-time view of a Feed.
type FeedState struct {
	Items   []models.ContentItem `json:"items"`
	Page    int                  `json:"page"`
	HasMore bool                 `json:"hasMore"`
}

// Feed holds the personalized feed across refreshes and pages.
//
// Item ids in a Feed are unique: Refresh keeps the first occurrence of an id
// and LoadMore skips ids already present. Each Refresh or LoadMore takes a
// generation number; a completion that is older than the latest issued
// generation is discarded.
type Feed struct {
	agg   *Aggregator
	prefs PreferenceStore

	mu      sync.Mutex
	items   []models.ContentItem
	seen    map[string]struct{}
	page    int
	hasMore bool
	gen     uint64
}

// NewFeed creates an empty feed at page 1.
func NewFeed(agg *Aggregator, prefs PreferenceStore) *Feed {
	return &Feed{
		agg:     agg,
		prefs:   prefs,
		items:   []models.ContentItem{},
		seen:    make(map[string]struct{}),
		page:    1,
		hasMore: true,
	}
}

// Refresh replaces the feed with page 1 of the personalized content.
func (f *Feed) Refresh(ctx context.Context) (FeedState, error) {
	gen := f.next()
	items, err := f.agg.FetchPersonalized(ctx, f.prefs.Snapshot(), 1)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stale(ctx, gen, OpPersonalized) {
		return f.viewLocked(), nil
	}
	if err != nil {
		return f.viewLocked(), err
	}

	f.items = make([]models.ContentItem, 0, len(items))
	f.seen = make(map[string]struct{}, len(items))
	f.appendLocked(items)
	f.page = 1
	f.hasMore = len(items) > 0
	return f.viewLocked(), nil
}

// LoadMore appends the next page. Items already in the feed are skipped;
// hasMore reflects whether the page returned anything at all.
func (f *Feed) LoadMore(ctx context.Context) (FeedState, error) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	nextPage := f.page + 1
	f.mu.Unlock()

	items, err := f.agg.LoadMore(ctx, f.prefs.Snapshot(), nextPage)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stale(ctx, gen, OpLoadMore) {
		return f.viewLocked(), nil
	}
	if err != nil {
		return f.viewLocked(), err
	}

	f.appendLocked(items)
	f.page = nextPage
	f.hasMore = len(items) > 0
	return f.viewLocked(), nil
}

// View returns the feed with the stored manual order applied.
func (f *Feed) View() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

// Len returns the number of items held, before any ordering is applied.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// Reorder moves the item at from to to within the displayed order and stores
// the resulting id sequence as the manual feed order.
func (f *Feed) Reorder(ctx context.Context, from, to int) (FeedState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state := f.viewLocked()
	moved, err := overlay.Move(state.Items, from, to)
	if err != nil {
		return state, err
	}
	f.prefs.SetFeedOrder(ctx, overlay.IDs(moved))
	state.Items = moved
	return state, nil
}

func (f *Feed) next() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	return f.gen
}

func (f *Feed) stale(ctx context.Context, gen uint64, op string) bool {
	if gen == f.gen {
		return false
	}
	metrics.StaleCompletions.WithLabelValues("feed").Inc()
	logging.Ctx(ctx).Debug().
		Str("operation", op).
		Uint64("generation", gen).
		Uint64("latest", f.gen).
		Msg("Discarding superseded feed completion")
	return true
}

func (f *Feed) appendLocked(items []models.ContentItem) {
	for i := range items {
		if _, dup := f.seen[items[i].ID]; dup {
			continue
		}
		f.seen[items[i].ID] = struct{}{}
		f.items = append(f.items, items[i])
	}
}

func (f *Feed) viewLocked() FeedState {
	return FeedState{
		Items:   models.CloneItems(overlay.Project(f.items, f.prefs.Snapshot().FeedOrder)),
		Page:    f.page,
		HasMore: f.hasMore,
	}
}
