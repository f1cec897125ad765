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

// TMDB result caps.
const (
	tmdbListCap   = 10
	tmdbSearchCap = 20
)

// TMDBConfig configures a TMDBClient.
type TMDBConfig struct {
	BaseURL      string
	AccessToken  string
	ImageBaseURL string
	Timeout      time.Duration
	RateLimit    float64
	Breaker      BreakerSettings
	HTTPClient   *http.Client
	// Now feeds the release-date fallback. Defaults to time.Now.
	Now func() time.Time
}

// TMDBClient serves movies from The Movie Database v3 API, authenticated
// with a v4 read access token sent as a bearer token.
type TMDBClient struct {
	baseURL string
	opts    normalize.MovieOptions
	t       *transport
}

// NewTMDBClient builds a TMDB adapter.
func NewTMDBClient(cfg TMDBConfig) *TMDBClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Breaker == (BreakerSettings{}) {
		cfg.Breaker = DefaultBreakerSettings()
	}
	t := newTransport("tmdb", cfg.Timeout, cfg.RateLimit, cfg.Breaker, cfg.HTTPClient)
	if cfg.AccessToken != "" {
		t.headers["Authorization"] = "Bearer " + cfg.AccessToken
	}
	return &TMDBClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		opts:    normalize.MovieOptions{ImageBaseURL: cfg.ImageBaseURL, Now: cfg.Now},
		t:       t,
	}
}

// Name implements Adapter.
func (c *TMDBClient) Name() string { return "tmdb" }

// FetchByTags discovers popular movies for each genre id in tags.
func (c *TMDBClient) FetchByTags(ctx context.Context, tags []string, page int) []models.ContentItem {
	start := time.Now()
	genres := cleanTags(tags)
	if len(genres) == 0 {
		return []models.ContentItem{}
	}

	items := fetchEach(ctx, c.Name(), genres, func(ctx context.Context, tag string) ([]models.ContentItem, error) {
		genre, ok := models.ParseMovieGenre(tag)
		if !ok {
			return nil, fmt.Errorf("unknown movie genre %q", tag)
		}
		params := url.Values{}
		params.Set("with_genres", genre.String())
		params.Set("page", strconv.Itoa(max(page, 1)))
		params.Set("sort_by", "popularity.desc")
		return c.list(ctx, "/discover/movie", params, tmdbListCap)
	})
	return observe(ctx, c.Name(), OpFetchByTags, start, items, nil)
}

// FetchTrending returns this week's trending movies.
func (c *TMDBClient) FetchTrending(ctx context.Context) []models.ContentItem {
	start := time.Now()
	items, err := c.list(ctx, "/trending/movie/week", nil, tmdbListCap)
	return observe(ctx, c.Name(), OpTrending, start, items, err)
}

// Search returns movies whose title matches query.
func (c *TMDBClient) Search(ctx context.Context, query string) []models.ContentItem {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ContentItem{}
	}
	start := time.Now()
	params := url.Values{}
	params.Set("query", query)
	items, err := c.list(ctx, "/search/movie", params, tmdbSearchCap)
	return observe(ctx, c.Name(), OpSearch, start, items, err)
}

// FetchPopular returns popular movies, used as recommendations.
func (c *TMDBClient) FetchPopular(ctx context.Context, page int) []models.ContentItem {
	start := time.Now()
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(page, 1)))
	items, err := c.list(ctx, "/movie/popular", params, tmdbListCap)
	return observe(ctx, c.Name(), OpPopular, start, items, err)
}

// FetchNowPlaying returns movies currently in theaters.
func (c *TMDBClient) FetchNowPlaying(ctx context.Context) []models.ContentItem {
	start := time.Now()
	items, err := c.list(ctx, "/movie/now_playing", nil, tmdbListCap)
	return observe(ctx, c.Name(), OpNowPlaying, start, items, err)
}

func (c *TMDBClient) list(ctx context.Context, path string, params url.Values, limit int) ([]models.ContentItem, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := getJSON[models.TMDBResponse](ctx, c.t, reqURL)
	if err != nil {
		return nil, err
	}

	movies := capItems(resp.Results, limit)
	items := make([]models.ContentItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, normalize.Movie(m, c.opts))
	}
	return items, nil
}
