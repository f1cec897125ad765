// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package aggregator

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/feedwise/internal/models"
)

// stubSource is a scripted adapter. Unset funcs return nothing.
type stubSource struct {
	name     string
	byTags   func(ctx context.Context, tags []string, page int) []models.ContentItem
	trending func(ctx context.Context) []models.ContentItem
	search   func(ctx context.Context, query string) []models.ContentItem
	recent   func(ctx context.Context, limit int) []models.ContentItem

	calls atomic.Int32
	mu    sync.Mutex
	pages []int
	tags  []string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FetchByTags(ctx context.Context, tags []string, page int) []models.ContentItem {
	s.calls.Add(1)
	s.mu.Lock()
	s.pages = append(s.pages, page)
	s.tags = append(s.tags, tags...)
	s.mu.Unlock()
	if s.byTags == nil {
		return []models.ContentItem{}
	}
	return s.byTags(ctx, tags, page)
}

func (s *stubSource) FetchTrending(ctx context.Context) []models.ContentItem {
	s.calls.Add(1)
	if s.trending == nil {
		return []models.ContentItem{}
	}
	return s.trending(ctx)
}

func (s *stubSource) Search(ctx context.Context, query string) []models.ContentItem {
	s.calls.Add(1)
	if s.search == nil {
		return []models.ContentItem{}
	}
	return s.search(ctx, query)
}

func (s *stubSource) FetchRecent(ctx context.Context, limit int) []models.ContentItem {
	s.calls.Add(1)
	if s.recent == nil {
		return []models.ContentItem{}
	}
	return s.recent(ctx, limit)
}

func (s *stubSource) seenTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]string(nil), s.tags...)
	slices.Sort(out)
	return out
}

func item(id string) models.ContentItem {
	return models.ContentItem{ID: id, Type: models.ContentTypeNews, Title: id}
}

func itemsWithPrefix(prefix string, n int) []models.ContentItem {
	out := make([]models.ContentItem, n)
	for i := range out {
		out[i] = item(fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

// tagItems returns n items namespaced by the first tag and page.
func tagItems(n int) func(context.Context, []string, int) []models.ContentItem {
	return func(_ context.Context, tags []string, page int) []models.ContentItem {
		return itemsWithPrefix(fmt.Sprintf("%s-p%d", tags[0], page), n)
	}
}

func prefsWith(cats []models.NewsCategory, genres []models.MovieGenre) models.UserPreferences {
	p := models.DefaultPreferences()
	p.NewsCategories = cats
	p.MovieGenres = genres
	return p
}

func ids(items []models.ContentItem) string {
	return strings.Join(models.ItemIDs(items), ",")
}

func sortedIDs(items []models.ContentItem) string {
	out := models.ItemIDs(items)
	slices.Sort(out)
	return strings.Join(out, ",")
}

func checkEqual[T comparable](t *testing.T, field string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", field, got, want)
	}
}
