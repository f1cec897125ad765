// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/feedwise/internal/middleware"
	"github.com/tomtom215/feedwise/internal/models"
)

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status             string  `json:"status"`
	Version            string  `json:"version"`
	UptimeSeconds      float64 `json:"uptimeSeconds"`
	PreferencesBackend string  `json:"preferencesBackend,omitempty"`
}

// Catalog lists the selectable categories and genres with their labels.
type Catalog struct {
	NewsCategories []models.CatalogEntry[models.NewsCategory] `json:"newsCategories"`
	MovieGenres    []models.CatalogEntry[models.MovieGenre]   `json:"movieGenres"`
}

// Health reports liveness. Upstream providers are not contacted: the engine
// serves degraded results when they fail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, HealthStatus{
		Status:             "healthy",
		Version:            h.version,
		UptimeSeconds:      time.Since(h.startTime).Seconds(),
		PreferencesBackend: h.backend,
	})
}

// Performance returns per-endpoint latency over the recent request window.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	if h.perf == nil {
		respondData(w, r, http.StatusOK, []middleware.EndpointStats{})
		return
	}
	respondData(w, r, http.StatusOK, h.perf.Stats())
}

// Catalog returns the category and genre vocabulary.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, Catalog{
		NewsCategories: models.NewsCategories,
		MovieGenres:    models.MovieGenres,
	})
}
