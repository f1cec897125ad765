// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/feedwise/internal/cache"
	"github.com/tomtom215/feedwise/internal/models"
)

// countingAdapter is a fake Adapter that counts upstream calls.
type countingAdapter struct {
	calls   atomic.Int32
	empty   atomic.Bool
	delay   time.Duration
	release chan struct{}
}

func (a *countingAdapter) Name() string { return "fake" }

func (a *countingAdapter) result(id string) []models.ContentItem {
	a.calls.Add(1)
	if a.release != nil {
		<-a.release
	}
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
	if a.empty.Load() {
		return []models.ContentItem{}
	}
	return []models.ContentItem{{ID: id, Type: models.ContentTypeNews, Title: id}}
}

func (a *countingAdapter) FetchByTags(_ context.Context, tags []string, page int) []models.ContentItem {
	return a.result("tags")
}

func (a *countingAdapter) FetchTrending(context.Context) []models.ContentItem {
	return a.result("trending")
}

func (a *countingAdapter) Search(_ context.Context, query string) []models.ContentItem {
	return a.result("search-" + query)
}

func TestCachingAdapterCachesNonEmpty(t *testing.T) {
	t.Parallel()
	next := &countingAdapter{}
	a := NewCachingAdapter(next, cache.New[[]models.ContentItem](time.Minute))

	for i := 0; i < 3; i++ {
		checkIDs(t, "trending", a.FetchTrending(context.Background()), "trending")
		checkIDs(t, "tags", a.FetchByTags(context.Background(), []string{"technology"}, 1), "tags")
	}
	checkIntEqual(t, "upstream calls", int(next.calls.Load()), 2)

	// A different page is a different key.
	a.FetchByTags(context.Background(), []string{"technology"}, 2)
	checkIntEqual(t, "upstream calls", int(next.calls.Load()), 3)
}

func TestCachingAdapterSkipsEmptyResults(t *testing.T) {
	t.Parallel()
	next := &countingAdapter{}
	next.empty.Store(true)
	a := NewCachingAdapter(next, cache.New[[]models.ContentItem](time.Minute))

	checkEmptyItems(t, "first", a.FetchTrending(context.Background()))
	checkEmptyItems(t, "second", a.FetchTrending(context.Background()))
	checkIntEqual(t, "upstream calls", int(next.calls.Load()), 2)
}

func TestCachingAdapterReturnsCopies(t *testing.T) {
	t.Parallel()
	a := NewCachingAdapter(&countingAdapter{}, cache.New[[]models.ContentItem](time.Minute))

	first := a.FetchTrending(context.Background())
	first[0].Title = "mutated"

	second := a.FetchTrending(context.Background())
	checkStringEqual(t, "cached title", second[0].Title, "trending")
}

func TestCachingAdapterCollapsesConcurrentLookups(t *testing.T) {
	t.Parallel()
	next := &countingAdapter{release: make(chan struct{})}
	a := NewCachingAdapter(next, cache.New[[]models.ContentItem](time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checkIDs(t, "search", a.Search(context.Background(), "go"), "search-go")
		}()
	}

	// Wait for the leader to reach upstream, give the followers time to join, then release it.
	deadline := time.Now().Add(2 * time.Second)
	for next.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(next.release)
	wg.Wait()

	if calls := next.calls.Load(); calls > 2 {
		t.Errorf("expected concurrent lookups to collapse, got %d upstream calls", calls)
	}
}

func TestCachingAdapterCanceledCallerStopsWaiting(t *testing.T) {
	t.Parallel()
	next := &countingAdapter{delay: 200 * time.Millisecond}
	a := NewCachingAdapter(next, cache.New[[]models.ContentItem](time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	checkEmptyItems(t, "canceled", a.FetchTrending(ctx))
	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("canceled caller waited %v", elapsed)
	}
}

func TestCachingAdapterBlankInputs(t *testing.T) {
	t.Parallel()
	next := &countingAdapter{}
	a := NewCachingAdapter(next, cache.New[[]models.ContentItem](time.Minute))

	checkEmptyItems(t, "search", a.Search(context.Background(), "  "))
	checkEmptyItems(t, "tags", a.FetchByTags(context.Background(), nil, 1))
	checkIntEqual(t, "upstream calls", int(next.calls.Load()), 0)
}

func TestCachingAdapterFetchRecentPassThrough(t *testing.T) {
	t.Parallel()
	social := NewCachingAdapter(NewSocialSource(nil), cache.New[[]models.ContentItem](time.Minute))
	checkIntEqual(t, "recent", len(social.FetchRecent(context.Background(), 4)), 4)

	other := NewCachingAdapter(&countingAdapter{}, cache.New[[]models.ContentItem](time.Minute))
	checkEmptyItems(t, "not recent-capable", other.FetchRecent(context.Background(), 4))
}
