// Feedwise - Content Aggregation and Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedwise

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/feedwise/internal/validation"
)

// MovieRecommendations returns one page of popular movies. ?page= defaults
// to 1.
func (h *Handler) MovieRecommendations(w http.ResponseWriter, r *http.Request) {
	if !h.moviesAvailable(w, r) {
		return
	}

	req := validation.MoviePageQuery{Page: 1}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, CodeValidation, "page must be an integer", nil)
			return
		}
		req.Page = page
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr)
		return
	}
	respondData(w, r, http.StatusOK, h.movies.FetchPopular(r.Context(), req.Page))
}

// MoviesNowPlaying returns the movies currently in theaters.
func (h *Handler) MoviesNowPlaying(w http.ResponseWriter, r *http.Request) {
	if !h.moviesAvailable(w, r) {
		return
	}
	respondData(w, r, http.StatusOK, h.movies.FetchNowPlaying(r.Context()))
}

func (h *Handler) moviesAvailable(w http.ResponseWriter, r *http.Request) bool {
	if h.movies == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeUnavailable, "Movie catalog is not configured", nil)
		return false
	}
	return true
}
