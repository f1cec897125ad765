// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/feedwise/internal/middleware"
)

// NewRouter builds the chi router for h. mw may be nil for the defaults.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}

	r := chi.NewRouter()

	// Applied to all routes, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(middleware.PrometheusMetrics)
	if h.perf != nil {
		r.Use(h.perf.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(securityHeaders)

		// Health is exempt from rate limiting so monitors can poll freely.
		r.Get("/health", h.Health)
		r.Get("/health/performance", h.Performance)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit("api"))
			r.Use(chimiddleware.Compress(5, "application/json"))

			r.Get("/catalog", h.Catalog)

			r.Route("/feed", func(r chi.Router) {
				r.Get("/", h.Feed)
				r.Post("/refresh", h.RefreshFeed)
				r.Post("/more", h.LoadMoreFeed)
				r.Post("/reorder", h.ReorderFeed)
			})

			r.Get("/trending", h.Trending)

			r.Route("/movies", func(r chi.Router) {
				r.Get("/recommendations", h.MovieRecommendations)
				r.Get("/now-playing", h.MoviesNowPlaying)
			})

			r.Route("/search", func(r chi.Router) {
				r.Get("/", h.Search)
				r.Post("/input", h.SearchInput)
				r.Get("/results", h.SearchResults)
			})

			r.Route("/preferences", func(r chi.Router) {
				r.Get("/", h.Preferences)
				r.Delete("/", h.ClearPreferences)
				r.Post("/reset", h.ResetPreferences)

				r.Put("/categories", h.SetCategories)
				r.Post("/categories/{category}/toggle", h.ToggleCategory)
				r.Put("/genres", h.SetGenres)
				r.Post("/genres/{genre}/toggle", h.ToggleGenre)

				r.Get("/favorites", h.Favorites)
				r.Post("/favorites", h.AddFavorite)
				r.Post("/favorites/toggle", h.ToggleFavorite)
				r.Get("/favorites/{id}", h.FavoriteStatus)
				r.Delete("/favorites/{id}", h.RemoveFavorite)

				r.Put("/feed-order", h.SetFeedOrder)
				r.Delete("/feed-order", h.ResetFeedOrder)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
