// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/feedwise/internal/aggregator"
	"github.com/tomtom215/feedwise/internal/middleware"
	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/preferences"
	"github.com/tomtom215/feedwise/internal/sources"
)

// fakeAdapter returns one item per tag and page, named after the adapter.
type fakeAdapter struct {
	name          string
	tagCalls      atomic.Int32
	trendingCalls atomic.Int32
	searchCalls   atomic.Int32
}

func (a *fakeAdapter) Name() string { return a.name }

func (a *fakeAdapter) FetchByTags(_ context.Context, tags []string, page int) []models.ContentItem {
	a.tagCalls.Add(1)
	items := make([]models.ContentItem, 0, len(tags))
	for _, tag := range tags {
		items = append(items, testItem(fmt.Sprintf("%s-%s-p%d", a.name, tag, page)))
	}
	return items
}

func (a *fakeAdapter) FetchTrending(context.Context) []models.ContentItem {
	a.trendingCalls.Add(1)
	return []models.ContentItem{testItem(a.name + "-trending")}
}

func (a *fakeAdapter) Search(_ context.Context, query string) []models.ContentItem {
	if strings.TrimSpace(query) == "" {
		return []models.ContentItem{}
	}
	a.searchCalls.Add(1)
	return []models.ContentItem{testItem(a.name + "-search-" + query)}
}

// fakeCatalog serves fixed movie lists and records the requested page.
type fakeCatalog struct {
	lastPage atomic.Int32
}

func (c *fakeCatalog) FetchPopular(_ context.Context, page int) []models.ContentItem {
	c.lastPage.Store(int32(page))
	return []models.ContentItem{movieItem(fmt.Sprintf("movie-popular-p%d", page))}
}

func (c *fakeCatalog) FetchNowPlaying(context.Context) []models.ContentItem {
	return []models.ContentItem{movieItem("movie-now-1"), movieItem("movie-now-2")}
}

func movieItem(id string) models.ContentItem {
	item := testItem(id)
	item.Type = models.ContentTypeMovie
	item.Source = "TMDB"
	return item
}

func testItem(id string) models.ContentItem {
	return models.ContentItem{
		ID:          id,
		Type:        models.ContentTypeNews,
		Title:       "Title " + id,
		Description: "Description",
		Source:      "Test",
		PublishedAt: "2026-01-01T00:00:00Z",
	}
}

// testEnv is a router over real sessions and a memory-backed store.
type testEnv struct {
	router http.Handler
	store  *preferences.Store
	news    *fakeAdapter
	movies  *fakeAdapter
	catalog *fakeCatalog
}

func newTestEnv(t *testing.T, opts ...func(*Services, *ChiMiddlewareConfig)) *testEnv {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	news := &fakeAdapter{name: "news"}
	movies := &fakeAdapter{name: "movies"}
	catalog := &fakeCatalog{}
	social := sources.NewSocialSource(func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) })

	agg := aggregator.New(news, movies, social,
		aggregator.WithSocialLimit(2),
		aggregator.WithRand(rand.New(rand.NewPCG(7, 11))),
	)

	store := preferences.NewStore(preferences.NewMemoryBackend(), preferences.WithBackendLabel("api-test"))
	store.Load(ctx)

	search := aggregator.NewSearchSession(ctx, agg, 100*time.Millisecond)
	t.Cleanup(search.Close)

	svc := Services{
		Feed:        aggregator.NewFeed(agg, store),
		Trending:    aggregator.NewTrending(agg),
		Search:      search,
		Preferences: store,
		Movies:      catalog,
		Performance: middleware.NewPerformanceMonitor(100, time.Minute),
		Version:     "test",
		Backend:     "memory",
	}
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	for _, opt := range opts {
		opt(&svc, mwCfg)
	}

	return &testEnv{
		router:  NewRouter(NewHandler(svc), NewChiMiddleware(mwCfg)),
		store:   store,
		news:    news,
		movies:  movies,
		catalog: catalog,
	}
}

// envelope mirrors Response with the data left raw.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    Meta            `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return serve(t, e.router, method, path, body)
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Code != http.StatusNotModified && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: invalid envelope %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

func serveRequest(e *testEnv, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, env envelope, code string) {
	t.Helper()
	if env.Success {
		t.Fatal("expected success=false")
	}
	if env.Error == nil || env.Error.Code != code {
		t.Fatalf("error = %+v, want code %s", env.Error, code)
	}
}

func itemIDs(items []models.ContentItem) []string {
	return models.ItemIDs(items)
}
