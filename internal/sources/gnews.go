// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/normalize"
)

// GNewsConfig configures a GNewsClient.
type GNewsConfig struct {
	BaseURL    string
	APIKey     string
	Language   string
	MaxResults int
	Timeout    time.Duration
	RateLimit  float64
	Breaker    BreakerSettings
	HTTPClient *http.Client
}

// GNewsClient serves news from a GNews-compatible API.
//
// Endpoints:
//   - GET {base}/top-headlines?category&page&lang&max&apikey
//   - GET {base}/search?q&sortBy=relevancy&lang&max&apikey
type GNewsClient struct {
	baseURL    string
	apiKey     string
	language   string
	maxResults int
	t          *transport
}

// NewGNewsClient builds a GNews adapter.
func NewGNewsClient(cfg GNewsConfig) *GNewsClient {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker == (BreakerSettings{}) {
		cfg.Breaker = DefaultBreakerSettings()
	}
	return &GNewsClient{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		language:   cfg.Language,
		maxResults: cfg.MaxResults,
		t:          newTransport("gnews", cfg.Timeout, cfg.RateLimit, cfg.Breaker, cfg.HTTPClient),
	}
}

// Name implements Adapter.
func (c *GNewsClient) Name() string { return "gnews" }

// FetchByTags fetches top headlines for each news category in tags.
// Unknown categories are skipped.
func (c *GNewsClient) FetchByTags(ctx context.Context, tags []string, page int) []models.ContentItem {
	start := time.Now()
	categories := cleanTags(tags)
	if len(categories) == 0 {
		return []models.ContentItem{}
	}

	items := fetchEach(ctx, c.Name(), categories, func(ctx context.Context, tag string) ([]models.ContentItem, error) {
		cat, ok := models.ParseNewsCategory(tag)
		if !ok {
			return nil, fmt.Errorf("unknown news category %q", tag)
		}
		return c.topHeadlines(ctx, &cat, page)
	})
	return observe(ctx, c.Name(), OpFetchByTags, start, items, nil)
}

// FetchTrending returns uncategorized top headlines.
func (c *GNewsClient) FetchTrending(ctx context.Context) []models.ContentItem {
	start := time.Now()
	items, err := c.topHeadlines(ctx, nil, 1)
	return observe(ctx, c.Name(), OpTrending, start, items, err)
}

// Search returns articles matching query by relevancy.
func (c *GNewsClient) Search(ctx context.Context, query string) []models.ContentItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ContentItem{}
	}
	start := time.Now()

	params := c.params()
	params.Set("q", query)
	params.Set("sortBy", "relevancy")

	items, err := c.fetch(ctx, "search", params, nil)
	return observe(ctx, c.Name(), OpSearch, start, items, err)
}

func (c *GNewsClient) topHeadlines(ctx context.Context, category *models.NewsCategory, page int) ([]models.ContentItem, error) {
	params := c.params()
	if category != nil {
		params.Set("category", string(*category))
	}
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	return c.fetch(ctx, "top-headlines", params, category)
}

func (c *GNewsClient) params() url.Values {
	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("lang", c.language)
	params.Set("max", strconv.Itoa(c.maxResults))
	return params
}

func (c *GNewsClient) fetch(ctx context.Context, endpoint string, params url.Values, category *models.NewsCategory) ([]models.ContentItem, error) {
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	resp, err := getJSON[models.GNewsResponse](ctx, c.t, reqURL)
	if err != nil {
		return nil, err
	}

	articles := capItems(resp.Articles, c.maxResults)
	items := make([]models.ContentItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, normalize.NewsArticle(a, category))
	}
	return items, nil
}
