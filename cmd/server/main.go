// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

// Package main is the entry point for the Feedwise server.
//
// Feedwise merges news, movies and social posts into one personalized feed.
// The server initializes components in the following order:
//
//  1. Configuration: defaults, config file and environment (Koanf v2)
//  2. Preferences: open the configured backend and load the stored blob
//  3. Sources: news (GNews or RSS), TMDB movies and the static social source,
//     optionally behind a shared TTL cache
//  4. Sessions: personalized feed, trending and debounced search
//  5. HTTP server: REST API and Prometheus metrics under a suture tree
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The supervisor stops the HTTP
// server gracefully and the preference backend is closed on the way out.
//
// # Example Usage
//
//	export NEWS_API_KEY=your-gnews-key
//	export TMDB_ACCESS_TOKEN=your-tmdb-token
//	export PREFERENCES_BACKEND=badger
//	./feedwise
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/feedwise/internal/aggregator"
	"github.com/tomtom215/feedwise/internal/api"
	"github.com/tomtom215/feedwise/internal/cache"
	"github.com/tomtom215/feedwise/internal/config"
	"github.com/tomtom215/feedwise/internal/logging"
	"github.com/tomtom215/feedwise/internal/metrics"
	"github.com/tomtom215/feedwise/internal/middleware"
	"github.com/tomtom215/feedwise/internal/models"
	"github.com/tomtom215/feedwise/internal/preferences"
	"github.com/tomtom215/feedwise/internal/sources"
	"github.com/tomtom215/feedwise/internal/supervisor"
	"github.com/tomtom215/feedwise/internal/supervisor/services"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("news_provider", cfg.News.Provider).
		Str("preferences_backend", cfg.Preferences.Backend).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Msg("Starting Feedwise")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := preferences.OpenBackend(ctx, cfg.Preferences)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.Preferences.Backend).Msg("Failed to open preference backend")
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing preference backend")
		}
	}()

	store := preferences.NewStore(backend,
		preferences.WithKey(cfg.Preferences.Key),
		preferences.WithBackendLabel(cfg.Preferences.Backend),
	)
	prefs := store.Load(ctx)
	logging.Info().
		Int("categories", len(prefs.NewsCategories)).
		Int("genres", len(prefs.MovieGenres)).
		Int("favorites", len(prefs.Favorites)).
		Msg("Preferences loaded")

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	news := newNewsSource(cfg.News)
	tmdb := sources.NewTMDBClient(sources.TMDBConfig{
		BaseURL:      cfg.Movies.BaseURL,
		AccessToken:  cfg.Movies.AccessToken,
		ImageBaseURL: cfg.Movies.ImageBaseURL,
		Timeout:      cfg.Movies.Timeout,
		RateLimit:    cfg.Movies.RateLimit,
	})
	var movies sources.Adapter = tmdb

	if cfg.Cache.Enabled {
		// Keys carry the provider name, so one cache serves every adapter.
		items := cache.New[[]models.ContentItem](cfg.Cache.TTL,
			cache.WithSizeObserver(func(n int) { metrics.CacheEntries.Set(float64(n)) }),
		)
		news = sources.NewCachingAdapter(news, items)
		movies = sources.NewCachingAdapter(movies, items)
		tree.AddBackgroundService(services.NewCacheJanitorService("sources", items, cfg.Cache.TTL))
		logging.Info().Dur("ttl", cfg.Cache.TTL).Msg("Source result cache enabled")
	}

	agg := aggregator.New(news, movies, sources.NewSocialSource(nil),
		aggregator.WithSocialLimit(cfg.Social.RecentLimit),
		aggregator.WithMaxConcurrency(cfg.Aggregator.MaxConcurrency),
	)

	search := aggregator.NewSearchSession(ctx, agg, cfg.Aggregator.SearchDebounce)
	defer search.Close()

	handler := api.NewHandler(api.Services{
		Feed:        aggregator.NewFeed(agg, store),
		Trending:    aggregator.NewTrending(agg),
		Search:      search,
		Preferences: store,
		Movies:      tmdb,
		Performance: middleware.NewPerformanceMonitor(0, 0),
		Version:     version,
		Backend:     cfg.Preferences.Backend,
	})
	mw := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, mw),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Feedwise stopped")
}

// newNewsSource builds the configured news adapter.
func newNewsSource(cfg config.NewsConfig) sources.Adapter {
	if cfg.Provider == config.NewsProviderRSS {
		feeds := make([]sources.RSSFeed, 0, len(cfg.RSSFeeds))
		for _, f := range cfg.RSSFeeds {
			category, _ := models.ParseNewsCategory(f.Category)
			feeds = append(feeds, sources.RSSFeed{Name: f.Name, URL: f.URL, Category: category})
		}
		logging.Info().Int("feeds", len(feeds)).Msg("Using RSS news source")
		return sources.NewRSSSource(sources.RSSConfig{
			Feeds:      feeds,
			MaxResults: cfg.MaxResults,
			Timeout:    cfg.Timeout,
			RateLimit:  cfg.RateLimit,
		})
	}
	return sources.NewGNewsClient(sources.GNewsConfig{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Language:   cfg.Language,
		MaxResults: cfg.MaxResults,
		Timeout:    cfg.Timeout,
		RateLimit:  cfg.RateLimit,
	})
}
