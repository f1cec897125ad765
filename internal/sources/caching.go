// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/feedwise/internal/cache"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/models"
)

// ItemCache is the result cache shared by caching adapters.
type ItemCache = cache.Cache[[]models.ContentItem]

// CachingAdapter serves repeated lookups from a TTL cache and collapses
// concurrent identical lookups into one upstream call. Only non-empty
// results are cached, so a transient failure is retried on the next call.
type CachingAdapter struct {
	next  Adapter
	cache *ItemCache
	group singleflight.Group
}

// NewCachingAdapter wraps next with c.
func NewCachingAdapter(next Adapter, c *ItemCache) *CachingAdapter {
	return &CachingAdapter{next: next, cache: c}
}

// Name implements Adapter.
func (a *CachingAdapter) Name() string { return a.next.Name() }

// FetchByTags implements Adapter.
func (a *CachingAdapter) FetchByTags(ctx context.Context, tags []string, page int) []models.ContentItem {
	if len(cleanTags(tags)) == 0 {
		return []models.ContentItem{}
	}
	key := cache.GenerateKey(a.Name()+":"+OpFetchByTags, struct {
		Tags []string
		Page int
	}{cleanTags(tags), page})
	return a.lookup(ctx, key, func(ctx context.Context) []models.ContentItem {
		return a.next.FetchByTags(ctx, tags, page)
	})
}

// FetchTrending implements Adapter.
func (a *CachingAdapter) FetchTrending(ctx context.Context) []models.ContentItem {
	return a.lookup(ctx, a.Name()+":"+OpTrending, a.next.FetchTrending)
}

// Search implements Adapter.
func (a *CachingAdapter) Search(ctx context.Context, query string) []models.ContentItem {
	q := strings.TrimSpace(query)
	if q == "" {
		return []models.ContentItem{}
	}
	key := cache.GenerateKey(a.Name()+":"+OpSearch, strings.ToLower(q))
	return a.lookup(ctx, key, func(ctx context.Context) []models.ContentItem {
		return a.next.Search(ctx, query)
	})
}

// FetchRecent passes through when the wrapped adapter is a RecentSource.
func (a *CachingAdapter) FetchRecent(ctx context.Context, limit int) []models.ContentItem {
	rs, ok := a.next.(RecentSource)
	if !ok {
		return []models.ContentItem{}
	}
	return rs.FetchRecent(ctx, limit)
}

func (a *CachingAdapter) lookup(ctx context.Context, key string, fetch func(context.Context) []models.ContentItem) []models.ContentItem {
	if items, ok := a.cache.Get(key); ok {
		metrics.RecordCacheLookup(a.Name(), true)
		return models.CloneItems(items)
	}
	metrics.RecordCacheLookup(a.Name(), false)

	// The shared call must not die with whichever caller happened to start it;
	// a canceled caller stops waiting instead.
	ch := a.group.DoChan(key, func() (any, error) {
		items := fetch(context.WithoutCancel(ctx))
		if len(items) > 0 {
			a.cache.Set(key, models.CloneItems(items))
		}
		return items, nil
	})

	select {
	case res := <-ch:
		items, _ := res.Val.([]models.ContentItem)
		return models.CloneItems(items)
	case <-ctx.Done():
		return []models.ContentItem{}
	}
}
