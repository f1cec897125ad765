// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/models"
)

// TrendingState is the last trending result.
type TrendingState struct {
	Items     []models.ContentItem `json:"items"`
	FetchedAt time.Time            `json:"fetchedAt"`
}

// Trending caches the latest trending result. Concurrent refreshes resolve
// to the most recently issued one.
type Trending struct {
	agg *Aggregator
	now func() time.Time

	mu        sync.Mutex
	items     []models.ContentItem
	fetchedAt time.Time
	gen       uint64
}

// NewTrending creates an empty trending session.
func NewTrending(agg *Aggregator) *Trending {
	return &Trending{agg: agg, now: time.Now, items: []models.ContentItem{}}
}

// Refresh fetches trending content and stores it unless a newer refresh
// was issued meanwhile.
func (t *Trending) Refresh(ctx context.Context) (TrendingState, error) {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.mu.Unlock()

	items, err := t.agg.FetchTrending(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		metrics.StaleCompletions.WithLabelValues("trending").Inc()
		logging.Ctx(ctx).Debug().Uint64("generation", gen).Msg("Discarding superseded trending completion")
		return t.stateLocked(), nil
	}
	if err != nil {
		return t.stateLocked(), err
	}
	t.items = items
	t.fetchedAt = t.now()
	return t.stateLocked(), nil
}

// State returns the cached result and whether anything has been fetched yet.
func (t *Trending) State() (TrendingState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked(), !t.fetchedAt.IsZero()
}

func (t *Trending) stateLocked() TrendingState {
	return TrendingState{Items: models.CloneItems(t.items), FetchedAt: t.fetchedAt}
}
