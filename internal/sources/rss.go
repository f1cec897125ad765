// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/tomtom215/feedwise/internal/fanout"
	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/normalize"
)

// RSSFeed is one configured feed and the news category it serves.
type RSSFeed struct {
	Name     string
	URL      string
	Category models.NewsCategory
}

// RSSConfig configures an RSSSource.
type RSSConfig struct {
	Feeds      []RSSFeed
	MaxResults int
	Timeout    time.Duration
	RateLimit  float64
	Breaker    BreakerSettings
	HTTPClient *http.Client
}

// RSSSource serves news from RSS and Atom feeds. Feeds have no pagination,
// so any page after the first is empty.
type RSSSource struct {
	feeds      []RSSFeed
	maxResults int
	t          *transport
}

// NewRSSSource builds an RSS news adapter.
func NewRSSSource(cfg RSSConfig) *RSSSource {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker == (BreakerSettings{}) {
		cfg.Breaker = DefaultBreakerSettings()
	}
	return &RSSSource{
		feeds:      cfg.Feeds,
		maxResults: cfg.MaxResults,
		t:          newTransport("rss", cfg.Timeout, cfg.RateLimit, cfg.Breaker, cfg.HTTPClient),
	}
}

// Name implements Adapter.
func (s *RSSSource) Name() string { return "rss" }

// FetchByTags returns the items of every feed configured for the requested categories.
func (s *RSSSource) FetchByTags(ctx context.Context, tags []string, page int) []models.ContentItem {
	start := time.Now()
	categories := cleanTags(tags)
	if len(categories) == 0 || page > 1 {
		return []models.ContentItem{}
	}

	items := fetchEach(ctx, s.Name(), categories, func(ctx context.Context, tag string) ([]models.ContentItem, error) {
		cat, ok := models.ParseNewsCategory(tag)
		if !ok {
			return nil, fmt.Errorf("unknown news category %q", tag)
		}
		return s.fetchFeeds(ctx, s.feedsFor(cat))
	})
	return observe(ctx, s.Name(), OpFetchByTags, start, items, nil)
}

// FetchTrending returns items from the general feeds, or from every feed
// when none is configured as general.
func (s *RSSSource) FetchTrending(ctx context.Context) []models.ContentItem {
	start := time.Now()
	feeds := s.feedsFor(models.NewsGeneral)
	if len(feeds) == 0 {
		feeds = s.feeds
	}
	items, err := s.fetchFeeds(ctx, feeds)
	return observe(ctx, s.Name(), OpTrending, start, capItems(items, s.maxResults), err)
}

// Search filters every configured feed by a case-insensitive substring of
// the title or description.
func (s *RSSSource) Search(ctx context.Context, query string) []models.ContentItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []models.ContentItem{}
	}
	start := time.Now()

	all, err := s.fetchFeeds(ctx, s.feeds)
	matched := make([]models.ContentItem, 0, len(all))
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			matched = append(matched, item)
		}
	}
	return observe(ctx, s.Name(), OpSearch, start, matched, err)
}

func (s *RSSSource) feedsFor(cat models.NewsCategory) []RSSFeed {
	var out []RSSFeed
	for _, f := range s.feeds {
		if f.Category == cat {
			out = append(out, f)
		}
	}
	return out
}

// fetchFeeds parses feeds concurrently. The error is non-nil only when every
// feed failed.
func (s *RSSSource) fetchFeeds(ctx context.Context, feeds []RSSFeed) ([]models.ContentItem, error) {
	if len(feeds) == 0 {
		return []models.ContentItem{}, nil
	}

	tasks := make([]fanout.Task[[]models.ContentItem], 0, len(feeds))
	for _, f := range feeds {
		tasks = append(tasks, func(ctx context.Context) ([]models.ContentItem, error) {
			return s.fetchFeed(ctx, f)
		})
	}
	results := fanout.Settle(ctx, 0, tasks...)

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	items := fanout.Flatten(results)
	if len(errs) == len(feeds) {
		return items, errors.Join(errs...)
	}
	return items, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, f RSSFeed) ([]models.ContentItem, error) {
	if err := s.t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rss rate limiter: %w", err)
	}

	result, err := s.t.breaker.execute(func() (any, error) {
		return s.parseFeed(ctx, f.URL)
	})
	if err != nil {
		return nil, err
	}
	feed, ok := result.(*gofeed.Feed)
	if !ok {
		return nil, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}

	name := f.Name
	if name == "" {
		name = feed.Title
	}
	cat := f.Category
	entries := capItems(feed.Items, s.maxResults)
	items := make([]models.ContentItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, normalize.FeedItem(entry, name, &cat))
	}
	return items, nil
}

// parseFeed downloads feedURL and parses it as RSS, Atom or JSON Feed.
func (s *RSSSource) parseFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := s.t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			Provider:   s.Name(),
			StatusCode: resp.StatusCode,
			Body:       string(readBodyForError(resp.Body)),
		}
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}
	return feed, nil
}
