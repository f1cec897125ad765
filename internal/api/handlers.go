// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"context"
	"time"

	"github.com/tomtom215/feedwise/internal/aggregator"
	"github.com/tomtom215/feedwise/internal/middleware"
	"github.com/tomtom215/feedwise/internal/models"
)

// FeedSession is the personalized feed (*aggregator.Feed).
type FeedSession interface {
	Refresh(ctx context.Context) (aggregator.FeedState, error)
	LoadMore(ctx context.Context) (aggregator.FeedState, error)
	Reorder(ctx context.Context, from, to int) (aggregator.FeedState, error)
	View() aggregator.FeedState
	Len() int
}

// TrendingSession is the trending view (*aggregator.Trending).
type TrendingSession interface {
	Refresh(ctx context.Context) (aggregator.TrendingState, error)
	State() (aggregator.TrendingState, bool)
}

// SearchSession is the debounced search (*aggregator.SearchSession).
type SearchSession interface {
	Input(query string)
	Submit(ctx context.Context, query string) (aggregator.SearchState, error)
	Results() aggregator.SearchState
}

// PreferenceStore is the preference store (*preferences.Store).
type PreferenceStore interface {
	Snapshot() models.UserPreferences
	IsFavorite(id string) bool
	AddFavorite(ctx context.Context, item models.ContentItem) models.UserPreferences
	ToggleCategory(ctx context.Context, c models.NewsCategory) models.UserPreferences
	ToggleGenre(ctx context.Context, g models.MovieGenre) models.UserPreferences
	SetCategories(ctx context.Context, cats []models.NewsCategory) models.UserPreferences
	SetGenres(ctx context.Context, genres []models.MovieGenre) models.UserPreferences
	ToggleFavorite(ctx context.Context, item models.ContentItem) models.UserPreferences
	RemoveFavorite(ctx context.Context, id string) models.UserPreferences
	SetFeedOrder(ctx context.Context, ids []string) models.UserPreferences
	ResetFeedOrder(ctx context.Context) models.UserPreferences
	ResetAll(ctx context.Context) models.UserPreferences
	Clear(ctx context.Context) models.UserPreferences
}

// MovieCatalog lists TMDB movies outside the tag queries (*sources.TMDBClient).
type MovieCatalog interface {
	FetchPopular(ctx context.Context, page int) []models.ContentItem
	FetchNowPlaying(ctx context.Context) []models.ContentItem
}

// Services are the engine components the handlers drive.
type Services struct {
	Feed        FeedSession
	Trending    TrendingSession
	Search      SearchSession
	Preferences PreferenceStore

	// Optional. Without Movies the movie routes answer 503.
	Movies      MovieCatalog
	Performance *middleware.PerformanceMonitor
	Version     string
	Backend     string
}

// Handler serves the Feedwise HTTP API.
type Handler struct {
	feed      FeedSession
	trending  TrendingSession
	search    SearchSession
	prefs     PreferenceStore
	movies    MovieCatalog
	perf      *middleware.PerformanceMonitor
	version   string
	backend   string
	startTime time.Time
}

// NewHandler creates a handler. Feed, Trending, Search and Preferences are
// required.
func NewHandler(s Services) *Handler {
	version := s.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		feed:      s.Feed,
		trending:  s.Trending,
		search:    s.Search,
		prefs:     s.Preferences,
		movies:    s.Movies,
		perf:      s.Performance,
		version:   version,
		backend:   s.Backend,
		startTime: time.Now(),
	}
}
